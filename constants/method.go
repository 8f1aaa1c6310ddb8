package constants

// Method records which candidate a PDF reconcile iteration selected.
type Method string

const (
	MethodNative Method = "native" // embedded text layer
	MethodOCR    Method = "ocr"    // rasterized pages run through OCR
)

// Default reconcile parameters.
const (
	DefaultSimilarityThreshold = 0.9
	DefaultPDFIterations       = 2
	DefaultOCRDPI              = 300
	DefaultTesseractLang       = "eng"
)
