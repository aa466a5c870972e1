package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/inventory-flow/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductsCollection is the collection holding product documents.
const ProductsCollection = "products"

type productDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	SKU         string             `bson:"sku"`
	Category    string             `bson:"category"`
	Quantity    int                `bson:"quantity"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	MinStock    int                `bson:"minStock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDocument) product() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		SKU:         d.SKU,
		Category:    d.Category,
		Quantity:    d.Quantity,
		Price:       d.Price,
		Description: d.Description,
		MinStock:    d.MinStock,
		CreatedAt:   models.Timestamp(d.CreatedAt),
		UpdatedAt:   models.Timestamp(d.UpdatedAt),
	}
}

func toDocument(id primitive.ObjectID, p models.Product) productDocument {
	return productDocument{
		ID:          id,
		Name:        p.Name,
		SKU:         p.SKU,
		Category:    p.Category,
		Quantity:    p.Quantity,
		Price:       p.Price,
		Description: p.Description,
		MinStock:    p.MinStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// MongoProductRepository stores products as documents in a MongoDB collection.
type MongoProductRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll, now: time.Now}
}

// EnsureIndexes creates the index backing the newest-first listing.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create products index: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) Create(ctx context.Context, fields models.ProductFields) (models.Product, error) {
	p := models.NewProduct(fields, r.now())
	if err := models.ValidateProduct(p); err != nil {
		return models.Product{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := toDocument(primitive.NewObjectID(), p)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return doc.product(), nil
}

func (r *MongoProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, d.product())
	}
	return products, nil
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc productDocument
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product: %w", err)
	}
	return doc.product(), nil
}

// changedFields builds the $set document from the fields present in the request only,
// taking their normalized values from the merged product.
func changedFields(fields models.ProductFields, p models.Product) bson.D {
	set := bson.D{}
	if fields.Name != nil {
		set = append(set, bson.E{Key: "name", Value: p.Name})
	}
	if fields.SKU != nil {
		set = append(set, bson.E{Key: "sku", Value: p.SKU})
	}
	if fields.Category != nil {
		set = append(set, bson.E{Key: "category", Value: p.Category})
	}
	if fields.Quantity != nil {
		set = append(set, bson.E{Key: "quantity", Value: p.Quantity})
	}
	if fields.Price != nil {
		set = append(set, bson.E{Key: "price", Value: p.Price})
	}
	if fields.Description != nil {
		set = append(set, bson.E{Key: "description", Value: p.Description})
	}
	if fields.MinStock != nil {
		set = append(set, bson.E{Key: "minStock", Value: p.MinStock})
	}
	return append(set, bson.E{Key: "updatedAt", Value: p.UpdatedAt})
}

// UpdateByID validates the merged document, then $sets only the supplied fields.
func (r *MongoProductRepository) UpdateByID(ctx context.Context, id string, fields models.ProductFields) (models.Product, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	current.Apply(fields)
	if err := models.ValidateProduct(current); err != nil {
		return models.Product{}, err
	}
	current.Touch(r.now())

	oid, _ := primitive.ObjectIDFromHex(id)
	set := changedFields(fields, current)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc productDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("update product: %w", err)
	}
	return doc.product(), nil
}

func (r *MongoProductRepository) DeleteByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc productDocument
	err = r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("delete product: %w", err)
	}
	return doc.product(), nil
}
