package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func documentD(t *testing.T, d productDocument) bson.D {
	t.Helper()
	raw, err := bson.Marshal(d)
	if err != nil {
		t.Fatalf("marshal document: %v", err)
	}
	var out bson.D
	if err := bson.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal document: %v", err)
	}
	return out
}

// sentSet returns the $set document of the findAndModify command the repository issued.
func sentSet(mt *mtest.T) bson.Raw {
	mt.Helper()
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName == "findAndModify" {
			return evt.Command.Lookup("update", "$set").Document()
		}
	}
	mt.Fatalf("no findAndModify command was sent")
	return nil
}

func sampleDocument(name string, createdAt time.Time) productDocument {
	return productDocument{
		ID:          primitive.NewObjectID(),
		Name:        name,
		SKU:         "SKU-" + name,
		Category:    "Laptop",
		Quantity:    4,
		Price:       850,
		Description: name + " description",
		MinStock:    5,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestMongoProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

	mt.Run("create", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		p, err := r.Create(ctx, validFields("Phone"))
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(p.ID); err != nil {
			mt.Errorf("expected ObjectID hex id, got %q", p.ID)
		}
		if p.Name != "Phone" || p.Quantity != 10 {
			mt.Errorf("unexpected product: %+v", p)
		}
	})

	mt.Run("create invalid does not write", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)

		fields := validFields("Phone")
		fields.Description = ptr("")
		_, err := r.Create(ctx, fields)

		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			mt.Fatalf("expected validation error, got %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		newer := sampleDocument("Newer", created.Add(time.Hour))
		older := sampleDocument("Older", created)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, documentD(t, newer), documentD(t, older)))

		products, err := r.ListAll(ctx)
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if len(products) != 2 || products[0].Name != "Newer" || products[1].Name != "Older" {
			mt.Errorf("unexpected products: %+v", products)
		}
		if products[0].ID != newer.ID.Hex() {
			mt.Errorf("expected id %s, got %s", newer.ID.Hex(), products[0].ID)
		}
	})

	mt.Run("get by invalid id", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		if _, err := r.GetByID(ctx, "not-an-object-id"); !errors.Is(err, ErrProductNotFound) {
			mt.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("get by missing id", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := r.GetByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, ErrProductNotFound) {
			mt.Errorf("expected ErrProductNotFound, got %v", err)
		}
	})

	mt.Run("update", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		doc := sampleDocument("Phone", created)
		after := doc
		after.Quantity = 2
		after.UpdatedAt = created.Add(time.Minute)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, documentD(t, doc)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: documentD(t, after)}),
		)

		p, err := r.UpdateByID(ctx, doc.ID.Hex(), models.ProductFields{Quantity: ptr(2)})
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if p.Quantity != 2 || p.Name != "Phone" {
			mt.Errorf("unexpected product: %+v", p)
		}
	})

	mt.Run("update sets only supplied fields", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		doc := sampleDocument("Phone", created)
		after := doc
		after.Quantity = 2

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, documentD(t, doc)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: documentD(t, after)}),
		)

		if _, err := r.UpdateByID(ctx, doc.ID.Hex(), models.ProductFields{Quantity: ptr(2), SKU: ptr("  ")}); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}

		set := sentSet(mt)
		if got := set.Lookup("quantity").AsInt64(); got != 2 {
			mt.Errorf("expected quantity 2 in $set, got %d", got)
		}
		if got := set.Lookup("sku").StringValue(); got != models.DefaultSKU {
			mt.Errorf("expected normalized sku %q in $set, got %q", models.DefaultSKU, got)
		}
		if _, err := set.LookupErr("updatedAt"); err != nil {
			mt.Errorf("expected updatedAt in $set: %v", err)
		}
		for _, key := range []string{"name", "category", "price", "description", "minStock"} {
			if _, err := set.LookupErr(key); err == nil {
				mt.Errorf("unexpected %q in $set: %s", key, set)
			}
		}
	})

	mt.Run("update invalid", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		doc := sampleDocument("Phone", created)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, documentD(t, doc)))

		_, err := r.UpdateByID(ctx, doc.ID.Hex(), models.ProductFields{Name: ptr(" ")})
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			mt.Fatalf("expected validation error, got %v", err)
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		doc := sampleDocument("Phone", created)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: documentD(t, doc)}),
			mtest.CreateSuccessResponse(),
		)

		p, err := r.DeleteByID(ctx, doc.ID.Hex())
		if err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		if p.ID != doc.ID.Hex() {
			mt.Errorf("expected id %s, got %s", doc.ID.Hex(), p.ID)
		}

		if _, err := r.DeleteByID(ctx, doc.ID.Hex()); !errors.Is(err, ErrProductNotFound) {
			mt.Errorf("expected ErrProductNotFound on second delete, got %v", err)
		}
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		r := NewMongoProductRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := r.EnsureIndexes(ctx); err != nil {
			mt.Errorf("unexpected error: %v", err)
		}
	})
}
