package usecase

import (
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
)

// UseCases bundles the application's use case objects
type UseCases struct {
	repo interfaces.Repository

	notifier       interfaces.SubmissionNotifier
	signatureStore interfaces.SignatureStore
	optionSource   interfaces.OptionSource
	linkSecret     []byte
	linkTTL        time.Duration

	Form       *FormUseCase
	Response   *ResponseUseCase
	Options    *OptionsUseCase
	PublicLink *PublicLinkUseCase
	Export     *ExportUseCase
}

// Option configures UseCases
type Option func(*UseCases)

// WithNotifier enables submission notifications
func WithNotifier(n interfaces.SubmissionNotifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

// WithSignatureStore enables signature image off-loading
func WithSignatureStore(s interfaces.SignatureStore) Option {
	return func(uc *UseCases) {
		uc.signatureStore = s
	}
}

// WithOptionSource sets the dynamic option source
func WithOptionSource(s interfaces.OptionSource) Option {
	return func(uc *UseCases) {
		uc.optionSource = s
	}
}

// WithLinkSigning sets the HMAC secret and lifetime for public link tokens
func WithLinkSigning(secret []byte, ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.linkSecret = secret
		uc.linkTTL = ttl
	}
}

// New creates the use case bundle
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		linkTTL: 30 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(uc)
	}

	uc.Form = NewFormUseCase(repo)
	uc.Response = NewResponseUseCase(repo, uc.notifier, uc.signatureStore)
	uc.Options = NewOptionsUseCase(repo, uc.optionSource)
	uc.PublicLink = NewPublicLinkUseCase(repo, uc.linkSecret, uc.linkTTL)
	uc.Export = NewExportUseCase(repo)

	return uc
}
