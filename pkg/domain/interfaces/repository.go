package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Form() FormRepository
	Response() ResponseRepository
	Entity() EntityRepository
	PublicLink() PublicLinkRepository

	// Close releases backend resources held by the repository
	Close() error
}
