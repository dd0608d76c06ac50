package repositories

import (
	"context"
	"errors"
	"fmt"
	"golang-cart-backend/internal/models"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartDocument struct {
	ID           string         `bson:"_id"`
	OwnerID      string         `bson:"owner_id,omitempty"`
	Name         string         `bson:"name"`
	State        string         `bson:"state"`
	Items        []itemDocument `bson:"items"`
	PricingSetID string         `bson:"pricing_set_id,omitempty"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
}

type itemDocument struct {
	ID          string            `bson:"id"`
	ProductID   string            `bson:"product_id"`
	ProductName string            `bson:"product_name,omitempty"`
	Options     map[string]string `bson:"options,omitempty"`
	Quantity    int               `bson:"quantity"`
	State       string            `bson:"state"`
	CreatedAt   time.Time         `bson:"created_at"`
	UpdatedAt   time.Time         `bson:"updated_at"`
}

func toCartDocument(c *models.Cart) cartDocument {
	doc := cartDocument{
		ID:        c.ID.String(),
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		State:     string(c.State),
		Items:     make([]itemDocument, 0, len(c.Items)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.PricingSetID != nil {
		doc.PricingSetID = c.PricingSetID.String()
	}
	for _, item := range c.Items {
		doc.Items = append(doc.Items, itemDocument{
			ID:          item.ID.String(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Options:     item.Options,
			Quantity:    item.Quantity,
			State:       string(item.State),
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	return doc
}

func (d cartDocument) toModel() (*models.Cart, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid cart id %q: %w", d.ID, err)
	}

	cart := &models.Cart{
		ID:        id,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		State:     models.CartState(d.State),
		Items:     make(models.ItemList, 0, len(d.Items)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.PricingSetID != "" {
		psID, err := uuid.Parse(d.PricingSetID)
		if err != nil {
			return nil, fmt.Errorf("invalid pricing set id %q: %w", d.PricingSetID, err)
		}
		cart.PricingSetID = &psID
	}
	for _, doc := range d.Items {
		itemID, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", doc.ID, err)
		}
		cart.Items = append(cart.Items, &models.Item{
			ID:          itemID,
			CartID:      id,
			ProductID:   doc.ProductID,
			ProductName: doc.ProductName,
			Options:     models.Options(doc.Options),
			Quantity:    doc.Quantity,
			State:       models.ItemState(doc.State),
			CreatedAt:   doc.CreatedAt,
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	return cart, nil
}

// Cart Repository
type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (r *mongoCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	doc := toCartDocument(cart)
	filter := bson.M{"_id": doc.ID}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *mongoCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var doc cartDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return doc.toModel()
}

func (r *mongoCartRepository) FindBy(ctx context.Context, criteria Criteria) ([]*models.Cart, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	filter := bson.M{}
	if len(criteria.IDs) > 0 {
		ids := make([]string, 0, len(criteria.IDs))
		for _, id := range criteria.IDs {
			ids = append(ids, id.String())
		}
		filter["_id"] = bson.M{"$in": ids}
	}
	if criteria.Name != "" {
		filter["name"] = criteria.Name
	}
	if criteria.State != "" {
		filter["state"] = string(criteria.State)
	}

	opts := options.Find()
	if len(criteria.OrderBy) > 0 {
		sort := bson.D{}
		for _, o := range criteria.OrderBy {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: string(o.Field), Value: dir})
		}
		opts.SetSort(sort)
	}
	if criteria.Limit > 0 {
		opts.SetLimit(int64(criteria.Limit))
	}
	if criteria.Offset > 0 {
		opts.SetSkip(int64(criteria.Offset))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find carts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []cartDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode carts: %w", err)
	}

	carts := make([]*models.Cart, 0, len(docs))
	for _, doc := range docs {
		cart, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		carts = append(carts, cart)
	}
	return carts, nil
}

func (r *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}}},
		{Keys: bson.D{{Key: "updated_at", Value: 1}}},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Product Catalog
type mongoProductCatalog struct {
	collection *mongo.Collection
}

func NewMongoProductCatalog(db *mongo.Database) ProductCatalog {
	return &mongoProductCatalog{
		collection: db.Collection("products"),
	}
}

func (r *mongoProductCatalog) GetByID(ctx context.Context, id string) (*models.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var doc models.CatalogProduct
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "is_active": true}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product := doc.Product()
	return &product, nil
}
