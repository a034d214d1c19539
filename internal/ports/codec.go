package ports

import "anchorbar/internal/domain"

// AnnotationCodec reads and writes annotation files
type AnnotationCodec interface {
	Read(path string) (*domain.AnnotationFile, error)
	Write(path string, f *domain.AnnotationFile) error
}
