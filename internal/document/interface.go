package document

// Builder writes downloadable .docx renditions of lecture artifacts
type Builder interface {
	// BuildDeck writes one page per image. Missing images are skipped with a warning.
	// It returns the number of images included.
	BuildDeck(title string, imagePaths []string, outputPath string) (int, error)
	BuildSummary(title, markdown, outputPath string) error
	BuildTranscript(title, transcript, outputPath string) error
}
