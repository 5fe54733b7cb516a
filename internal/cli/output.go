package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ytranslate/ytranslate/internal/format"
)

// checkOutputNew rejects an output path that already points at a file, so a
// command can fail before spending anything on API calls. The write itself
// still uses O_EXCL; this is only the early exit.
func checkOutputNew(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	return nil
}

// reportDone prints the completion line with the artifact's size and the
// elapsed wall-clock time. Falls back to the bare path when the artifact
// cannot be statted.
func reportDone(env *Env, start time.Time, path string) {
	if info, err := os.Stat(path); err == nil {
		elapsed := env.Now().Sub(start).Round(time.Second)
		fmt.Fprintf(env.Stderr, "Done: %s (%s in %s)\n", path, format.Size(info.Size()), format.Duration(elapsed))
		return
	}
	fmt.Fprintf(env.Stderr, "Done: %s\n", path)
}

// writeFileAtomic writes content to path.
// It fails if the file already exists (O_EXCL), preventing accidental overwrites.
// On write failure, the partial file is removed.
func writeFileAtomic(path, content string) error {
	// #nosec G302 G304 -- user-specified output file with standard permissions
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", path, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	writeErr := func() error {
		defer func() { _ = f.Close() }()
		if _, err := f.WriteString(content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if writeErr != nil {
		_ = os.Remove(path)
		return writeErr
	}

	return nil
}

// deliverFile copies a finished artifact from the temp dir to its final
// destination. Copy rather than rename: the output may sit on another
// filesystem. Fails if the destination already exists.
func deliverFile(srcPath, dstPath string) error {
	src, err := os.Open(srcPath) // #nosec G304 -- srcPath is in our temp dir
	if err != nil {
		return fmt.Errorf("cannot read result file: %w", err)
	}
	defer func() { _ = src.Close() }()

	// #nosec G302 G304 -- user-specified output file with standard permissions
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output file already exists: %s: %w", dstPath, ErrOutputExists)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	copyErr := func() error {
		defer func() { _ = dst.Close() }()
		if _, err := io.Copy(dst, src); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}()

	if copyErr != nil {
		_ = os.Remove(dstPath)
		return copyErr
	}

	return nil
}
