package models

// Upload carries one incoming file through validation and storage.
// Data is held in memory; the size cap is enforced before any write.
type Upload struct {
	// Field is the multipart form field the file arrived under,
	// used as the filename prefix (e.g. "images", "avatar").
	Field string

	// OriginalName is the client-supplied filename, kept only for
	// extension extraction. It never reaches the disk as-is.
	OriginalName string

	// ContentType is the declared MIME type of the file.
	ContentType string

	// Data is the raw file content.
	Data []byte
}

// StoredBlob describes a blob after it has been written.
type StoredBlob struct {
	// Ref is the storage-relative reference ("<kind>/<filename>").
	Ref string

	// Filename is the generated name without the kind prefix.
	Filename string

	// Size is the stored size in bytes.
	Size int64
}
