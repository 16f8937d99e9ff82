package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/fieldline-hq/fieldline/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client     *firestore.Client
	form       *formRepository
	response   *responseRepository
	entity     *entityRepository
	publicLink *publicLinkRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.form.collectionPrefix = prefix
		f.response.collectionPrefix = prefix
		f.entity.collectionPrefix = prefix
		f.publicLink.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:     client,
		form:       newFormRepository(client),
		response:   newResponseRepository(client),
		entity:     newEntityRepository(client),
		publicLink: newPublicLinkRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Form() interfaces.FormRepository {
	return f.form
}

func (f *Firestore) Response() interfaces.ResponseRepository {
	return f.response
}

func (f *Firestore) Entity() interfaces.EntityRepository {
	return f.entity
}

func (f *Firestore) PublicLink() interfaces.PublicLinkRepository {
	return f.publicLink
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
