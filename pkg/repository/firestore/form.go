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

type formRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newFormRepository(client *firestore.Client) *formRepository {
	return &formRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *formRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_forms"
	}
	return "forms"
}

func (r *formRepository) Create(ctx context.Context, form *model.Form) (*model.Form, error) {
	created := *form
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	_, err := r.client.Collection(r.collection()).Doc(created.ID).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create form", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *formRepository) Get(ctx context.Context, id string) (*model.Form, error) {
	docSnap, err := r.client.Collection(r.collection()).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get form", goerr.V("id", id))
	}

	var form model.Form
	if err := docSnap.DataTo(&form); err != nil {
		return nil, goerr.Wrap(err, "failed to decode form", goerr.V("id", id))
	}

	return &form, nil
}

func (r *formRepository) List(ctx context.Context) ([]*model.Form, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var forms []*model.Form
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate forms")
		}

		var form model.Form
		if err := docSnap.DataTo(&form); err != nil {
			return nil, goerr.Wrap(err, "failed to decode form", goerr.V("doc_id", docSnap.Ref.ID))
		}

		forms = append(forms, &form)
	}

	sort.Slice(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})

	return forms, nil
}

func (r *formRepository) Update(ctx context.Context, form *model.Form) (*model.Form, error) {
	docRef := r.client.Collection(r.collection()).Doc(form.ID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("form not found", goerr.V("id", form.ID))
		}
		return nil, goerr.Wrap(err, "failed to check form existence", goerr.V("id", form.ID))
	}

	updated := *form
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update form", goerr.V("id", form.ID))
	}

	return &updated, nil
}

func (r *formRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection(r.collection()).Doc(id).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete form", goerr.V("id", id))
	}
	return nil
}
