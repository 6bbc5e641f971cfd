package domain

// Upload represents opaque bytes handed to the ingestion pipeline before
// extraction. It is the caller's output, analogous to a raw file upload.
type Upload struct {
	// Filename is the original file name.
	Filename string

	// ContentType declares how the bytes should be extracted.
	ContentType ContentType

	// Data is the raw bytes for text and image uploads.
	Data []byte

	// Pages holds pre-rasterised page images for PDF uploads.
	// Rasterisation happens upstream; the pipeline never sees PDF bytes.
	Pages [][]byte

	// Metadata contains caller-supplied key-value pairs merged into the
	// stored document's metadata.
	Metadata map[string]any
}

// PageResult is the outcome of extracting one page of an upload.
// A failed page carries its error instead of silently substituting the
// error text into the merged content.
type PageResult struct {
	// Page is the zero-based page number.
	Page int

	// Text is the extracted text. Empty when Err is set.
	Text string

	// Err is the extraction failure for this page, if any.
	Err error
}
