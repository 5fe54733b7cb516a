package cli

// Export internal functions for testing.

// RunTranscript exports runTranscript for testing.
var RunTranscript = runTranscript

// RunVideo exports runVideo for testing.
var RunVideo = runVideo

// RunPDF exports runPDF for testing.
var RunPDF = runPDF

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// ResolveTargetLang exports resolveTargetLang for testing.
var ResolveTargetLang = resolveTargetLang

// SecondsDuration exports secondsDuration for testing.
var SecondsDuration = secondsDuration

// WriteFileAtomic exports writeFileAtomic for testing.
var WriteFileAtomic = writeFileAtomic

// DeliverFile exports deliverFile for testing.
var DeliverFile = deliverFile

// CheckOutputNew exports checkOutputNew for testing.
var CheckOutputNew = checkOutputNew

// ReportDone exports reportDone for testing.
var ReportDone = reportDone

// NewFetcher exports newFetcher for testing.
var NewFetcher = newFetcher

// VideoOptions exports videoOptions for testing.
type VideoOptions = videoOptions

// ValidConfigKeys exports validConfigKeys for testing.
var ValidConfigKeys = validConfigKeys
