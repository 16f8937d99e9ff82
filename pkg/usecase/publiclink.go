package usecase

import (
	"context"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
)

const formIDClaim = "form_id"

// PublicLinkUseCase issues and resolves signed tokens that let an
// unauthenticated respondent fill in one published form
type PublicLinkUseCase struct {
	repo   interfaces.Repository
	secret []byte
	ttl    time.Duration
}

func NewPublicLinkUseCase(repo interfaces.Repository, secret []byte, ttl time.Duration) *PublicLinkUseCase {
	return &PublicLinkUseCase{
		repo:   repo,
		secret: secret,
		ttl:    ttl,
	}
}

// Enabled reports whether link signing is configured
func (uc *PublicLinkUseCase) Enabled() bool {
	return len(uc.secret) > 0
}

// CreateLink creates a revocable public link for a published form and
// returns the link record together with its signed token
func (uc *PublicLinkUseCase) CreateLink(ctx context.Context, formID string) (*model.PublicLink, string, error) {
	if !uc.Enabled() {
		return nil, "", goerr.New("public links are not configured")
	}

	form, err := uc.repo.Form().Get(ctx, formID)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, formID))
	}
	if form == nil {
		return nil, "", goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, formID))
	}
	if !form.Status.AcceptsResponses() {
		return nil, "", goerr.Wrap(ErrFormNotPublished, "cannot link an unpublished form", goerr.V(FormIDKey, formID))
	}

	now := time.Now()
	link := &model.PublicLink{
		FormID:    formID,
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
	}
	created, err := uc.repo.PublicLink().Create(ctx, link)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to store public link", goerr.V(FormIDKey, formID))
	}

	token, err := uc.signToken(created)
	if err != nil {
		return nil, "", err
	}

	return created, token, nil
}

// ResolveToken verifies a token signature and expiry, then checks the
// stored link is still usable. Returns the link and its form.
func (uc *PublicLinkUseCase) ResolveToken(ctx context.Context, token string) (*model.PublicLink, *model.Form, error) {
	if !uc.Enabled() {
		return nil, nil, goerr.New("public links are not configured")
	}

	parsed, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, uc.secret),
		jwt.WithValidate(true),
	)
	if err != nil {
		return nil, nil, goerr.Wrap(ErrLinkNotUsable, "invalid link token")
	}

	linkID := parsed.Subject()
	link, err := uc.repo.PublicLink().Get(ctx, linkID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get public link", goerr.V(LinkIDKey, linkID))
	}
	if link == nil {
		return nil, nil, goerr.Wrap(ErrLinkNotFound, "public link not found", goerr.V(LinkIDKey, linkID))
	}
	if !link.Usable(time.Now()) {
		return nil, nil, goerr.Wrap(ErrLinkNotUsable, "public link is revoked or expired", goerr.V(LinkIDKey, linkID))
	}

	form, err := uc.repo.Form().Get(ctx, link.FormID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get form", goerr.V(FormIDKey, link.FormID))
	}
	if form == nil {
		return nil, nil, goerr.Wrap(ErrFormNotFound, "form not found", goerr.V(FormIDKey, link.FormID))
	}
	if !form.Status.AcceptsResponses() {
		return nil, nil, goerr.Wrap(ErrFormNotPublished, "form does not accept responses", goerr.V(FormIDKey, link.FormID))
	}

	return link, form, nil
}

// ListLinks returns all links issued for a form
func (uc *PublicLinkUseCase) ListLinks(ctx context.Context, formID string) ([]*model.PublicLink, error) {
	links, err := uc.repo.PublicLink().ListByForm(ctx, formID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list public links", goerr.V(FormIDKey, formID))
	}
	return links, nil
}

// RevokeLink invalidates a link before its expiry. Already-issued tokens
// for the link stop resolving immediately.
func (uc *PublicLinkUseCase) RevokeLink(ctx context.Context, linkID string) error {
	link, err := uc.repo.PublicLink().Get(ctx, linkID)
	if err != nil {
		return goerr.Wrap(err, "failed to get public link", goerr.V(LinkIDKey, linkID))
	}
	if link == nil {
		return goerr.Wrap(ErrLinkNotFound, "public link not found", goerr.V(LinkIDKey, linkID))
	}
	if err := uc.repo.PublicLink().Revoke(ctx, linkID); err != nil {
		return goerr.Wrap(err, "failed to revoke public link", goerr.V(LinkIDKey, linkID))
	}
	return nil
}

func (uc *PublicLinkUseCase) signToken(link *model.PublicLink) (string, error) {
	tok, err := jwt.NewBuilder().
		Subject(link.ID).
		Claim(formIDClaim, link.FormID).
		IssuedAt(link.CreatedAt).
		Expiration(link.ExpiresAt).
		Build()
	if err != nil {
		return "", goerr.Wrap(err, "failed to build link token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, uc.secret))
	if err != nil {
		return "", goerr.Wrap(err, "failed to sign link token")
	}

	return string(signed), nil
}
