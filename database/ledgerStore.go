package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go-storefront-orders/models"
	"go-storefront-orders/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLedgerStore implements services.LedgerStore with a `ledgers` registry
// collection plus one orders collection per tenant, mirroring the
// one-spreadsheet-per-business layout this service replaces.
type MongoLedgerStore struct {
	client  *mongo.Client
	ledgers *mongo.Collection
}

func NewMongoLedgerStore() *MongoLedgerStore {
	store := &MongoLedgerStore{
		client:  Client,
		ledgers: OpenCollection(Client, "ledgers"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := store.ledgers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("could not ensure ledger registry index: %v", err)
	}
	return store
}

// collectionSlug turns a ledger name into a safe collection name.
func collectionSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return "orders_" + b.String()
}

func (s *MongoLedgerStore) FindLedger(ctx context.Context, tenantId string) (*models.Ledger, error) {
	var ledger models.Ledger
	err := s.ledgers.FindOne(ctx, bson.M{"tenant_id": tenantId}).Decode(&ledger)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (s *MongoLedgerStore) EnsureLedger(ctx context.Context, tenantId string, name string) (*models.Ledger, error) {
	createdAt, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

	// Upsert keyed on tenant_id: a concurrent provision attempt converges
	// on the one document the first writer created.
	filter := bson.M{"tenant_id": tenantId}
	update := bson.D{{Key: "$setOnInsert", Value: bson.D{
		{Key: "tenant_id", Value: tenantId},
		{Key: "name", Value: name},
		{Key: "collection", Value: collectionSlug(name)},
		{Key: "status_options", Value: models.StatusOptions},
		{Key: "status_colors", Value: models.StatusColors},
		{Key: "order_count", Value: int64(0)},
		{Key: "created_at", Value: createdAt},
	}}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var ledger models.Ledger
	err := s.ledgers.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ledger)
	if mongo.IsDuplicateKeyError(err) {
		// two upserts raced on the unique tenant_id index; the loser
		// sees E11000 once and finds the winner's document on retry
		err = s.ledgers.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ledger)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrProvisioning, err)
	}

	// Schema setup for the orders collection. Safe to repeat.
	orders := OpenCollection(s.client, ledger.Collection)
	_, err = orders.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "order_id", Value: 1}}},
		{Keys: bson.D{{Key: "position", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrProvisioning, err)
	}
	return &ledger, nil
}

func (s *MongoLedgerStore) InsertOrder(ctx context.Context, ledger *models.Ledger, order *models.Order) error {
	// Bump the per-ledger counter; the new row takes the highest position
	// so reads come back newest-first.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Ledger
	err := s.ledgers.FindOneAndUpdate(
		ctx,
		bson.M{"tenant_id": ledger.Tenant_id},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "order_count", Value: int64(1)}}}},
		opts,
	).Decode(&updated)
	if err != nil {
		return err
	}
	order.Position = updated.Order_count

	orders := OpenCollection(s.client, ledger.Collection)
	_, err = orders.InsertOne(ctx, order)
	return err
}

func (s *MongoLedgerStore) ListOrders(ctx context.Context, ledger *models.Ledger) ([]models.Order, error) {
	orders := OpenCollection(s.client, ledger.Collection)
	findOpts := options.Find().SetSort(bson.D{{Key: "position", Value: -1}})
	cursor, err := orders.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var allOrders []models.Order
	if err := cursor.All(ctx, &allOrders); err != nil {
		return nil, err
	}
	return allOrders, nil
}

func (s *MongoLedgerStore) UpdateOrderStatus(ctx context.Context, ledger *models.Ledger, orderId string, status string, color string) (*models.Order, error) {
	updatedAt, _ := time.Parse(time.RFC3339, time.Now().Format(time.RFC3339))

	var updateObj bson.D
	updateObj = append(updateObj, bson.E{Key: "status", Value: status})
	updateObj = append(updateObj, bson.E{Key: "status_color", Value: color})
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: updatedAt})

	orders := OpenCollection(s.client, ledger.Collection)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := orders.FindOneAndUpdate(
		ctx,
		bson.M{"order_id": orderId},
		bson.D{{Key: "$set", Value: updateObj}},
		opts,
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
