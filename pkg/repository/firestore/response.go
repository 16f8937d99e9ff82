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

type responseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newResponseRepository(client *firestore.Client) *responseRepository {
	return &responseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *responseRepository) collection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_responses"
	}
	return "responses"
}

// responses live in a subcollection under their form document path so
// DeleteByForm only touches one form's responses
func (r *responseRepository) formResponses(formID string) *firestore.CollectionRef {
	return r.client.Collection(r.collection()).Doc(formID).Collection("items")
}

func (r *responseRepository) Create(ctx context.Context, resp *model.FormResponse) (*model.FormResponse, error) {
	created := *resp
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	_, err := r.formResponses(created.FormID).Doc(created.ID).Set(ctx, &created)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create response", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *responseRepository) Get(ctx context.Context, formID, id string) (*model.FormResponse, error) {
	docSnap, err := r.formResponses(formID).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get response", goerr.V("id", id))
	}

	var resp model.FormResponse
	if err := docSnap.DataTo(&resp); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response", goerr.V("id", id))
	}

	return &resp, nil
}

func (r *responseRepository) ListByForm(ctx context.Context, formID string) ([]*model.FormResponse, error) {
	iter := r.formResponses(formID).Documents(ctx)
	defer iter.Stop()

	var resps []*model.FormResponse
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate responses", goerr.V("form_id", formID))
		}

		var resp model.FormResponse
		if err := docSnap.DataTo(&resp); err != nil {
			return nil, goerr.Wrap(err, "failed to decode response", goerr.V("doc_id", docSnap.Ref.ID))
		}

		resps = append(resps, &resp)
	}

	sort.Slice(resps, func(i, j int) bool {
		return resps[i].SubmittedAt.After(resps[j].SubmittedAt)
	})

	return resps, nil
}

func (r *responseRepository) Update(ctx context.Context, resp *model.FormResponse) (*model.FormResponse, error) {
	docRef := r.formResponses(resp.FormID).Doc(resp.ID)

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.New("response not found", goerr.V("id", resp.ID))
		}
		return nil, goerr.Wrap(err, "failed to check response existence", goerr.V("id", resp.ID))
	}

	updated := *resp
	if _, err := docRef.Set(ctx, &updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update response", goerr.V("id", resp.ID))
	}

	return &updated, nil
}

func (r *responseRepository) DeleteByForm(ctx context.Context, formID string) error {
	iter := r.formResponses(formID).Documents(ctx)
	defer iter.Stop()

	batch := r.client.BulkWriter(ctx)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate responses", goerr.V("form_id", formID))
		}
		if _, err := batch.Delete(docSnap.Ref); err != nil {
			return goerr.Wrap(err, "failed to queue response deletion", goerr.V("doc_id", docSnap.Ref.ID))
		}
	}
	batch.End()

	return nil
}
