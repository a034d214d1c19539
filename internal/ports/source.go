package ports

// SourceFile describes an annotation file on disk ahead of import
type SourceFile struct {
	Dir         string // Absolute directory
	Name        string // Base filename
	Fingerprint string
}

// SourceFiles resolves and fingerprints files to be imported
type SourceFiles interface {
	// Expand replaces directories with the annotation files beneath them
	Expand(paths []string) ([]string, error)
	Stat(path string) (*SourceFile, error)
}
