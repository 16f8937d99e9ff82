package firestore

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/fieldline-hq/fieldline/pkg/domain/model"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type publicLinkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPublicLinkRepository(client *firestore.Client) *publicLinkRepository {
	return &publicLinkRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *publicLinkRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_public_links"
	}
	return "public_links"
}

func (r *publicLinkRepository) Create(ctx context.Context, link *model.PublicLink) (*model.PublicLink, error) {
	created := *link
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create public link", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *publicLinkRepository) Get(ctx context.Context, id string) (*model.PublicLink, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get public link", goerr.V("id", id))
	}

	var link model.PublicLink
	if err := docSnap.DataTo(&link); err != nil {
		return nil, goerr.Wrap(err, "failed to decode public link", goerr.V("id", id))
	}

	return &link, nil
}

func (r *publicLinkRepository) ListByForm(ctx context.Context, formID string) ([]*model.PublicLink, error) {
	iter := r.client.Collection(r.collection()).Where("FormID", "==", formID).Documents(ctx)
	defer iter.Stop()

	var links []*model.PublicLink
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate public links", goerr.V("form_id", formID))
		}

		var link model.PublicLink
		if err := docSnap.DataTo(&link); err != nil {
			return nil, goerr.Wrap(err, "failed to decode public link", goerr.V("doc_id", docSnap.Ref.ID))
		}

		links = append(links, &link)
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})

	return links, nil
}

func (r *publicLinkRepository) Revoke(ctx context.Context, id string) error {
	docRef := r.client.Collection(r.collection()).Doc(id)
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "Revoked", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.New("public link not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to revoke public link", goerr.V("id", id))
	}
	return nil
}
