package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	domainRepos "payportal.backend/internal/domain/repositories"
)

// Collection names
const (
	CollUsers         = "users"
	CollEmployees     = "employees"
	CollPayments      = "payments"
	CollNotifications = "notifications"
	CollHistory       = "transactionHistory"
)

var (
	mongoConnect = func(ctx context.Context, opts *options.ClientOptions) (*mongo.Client, error) {
		return mongo.Connect(ctx, opts)
	}
	mongoPing = func(ctx context.Context, c *mongo.Client) error { return c.Ping(ctx, nil) }
)

// Store is a MongoDB backed implementation of every portal repository
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and selects database
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongoConnect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := mongoPing(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the server is reachable
func (s *Store) Ping(ctx context.Context) error {
	return mongoPing(ctx, s.client)
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for coll, models := range indexModels() {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	return nil
}

// Users returns the customer repository
func (s *Store) Users() *UserRepository {
	return &UserRepository{coll: s.db.Collection(CollUsers)}
}

// Employees returns the employee repository
func (s *Store) Employees() *EmployeeRepository {
	return &EmployeeRepository{coll: s.db.Collection(CollEmployees)}
}

// Payments returns the payment repository
func (s *Store) Payments() *PaymentRepository {
	return &PaymentRepository{coll: s.db.Collection(CollPayments)}
}

// Notifications returns the notification repository
func (s *Store) Notifications() *NotificationRepository {
	return &NotificationRepository{coll: s.db.Collection(CollNotifications)}
}

// History returns the transaction history repository
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{coll: s.db.Collection(CollHistory)}
}

func uniqueIndex(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// linkedUniqueIndex only covers records that reference a payment
func linkedUniqueIndex(name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "paymentId", Value: 1}, {Key: "revision", Value: 1}},
		Options: options.Index().
			SetName(name).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"paymentId": bson.M{"$type": "string"}}),
	}
}

func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		CollUsers: {
			uniqueIndex("idx_users_username", bson.D{{Key: "username", Value: 1}}),
			uniqueIndex("idx_users_email", bson.D{{Key: "email", Value: 1}}),
			uniqueIndex("idx_users_account_number", bson.D{{Key: "accountNumber", Value: 1}}),
		},
		CollEmployees: {
			uniqueIndex("idx_employees_username", bson.D{{Key: "username", Value: 1}}),
		},
		CollPayments: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("idx_payments_status")},
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "status", Value: 1}}, Options: options.Index().SetName("idx_payments_username_status")},
			{Keys: bson.D{{Key: "notificationPending", Value: 1}}, Options: options.Index().SetName("idx_payments_notification_pending")},
		},
		CollNotifications: {
			linkedUniqueIndex("idx_notifications_payment_revision"),
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("idx_notifications_username")},
		},
		CollHistory: {
			linkedUniqueIndex("idx_history_payment_revision"),
			{Keys: bson.D{{Key: "username", Value: 1}, {Key: "createdAt", Value: 1}}, Options: options.Index().SetName("idx_history_username")},
		},
	}
}

// UnitOfWork runs fn directly. Standalone MongoDB servers have no
// multi-document transactions; every write this store performs inside a
// unit of work is individually idempotent instead.
type UnitOfWork struct{}

// Do executes fn
func (UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var (
	_ domainRepos.UserRepository         = (*UserRepository)(nil)
	_ domainRepos.EmployeeRepository     = (*EmployeeRepository)(nil)
	_ domainRepos.PaymentRepository      = (*PaymentRepository)(nil)
	_ domainRepos.NotificationRepository = (*NotificationRepository)(nil)
	_ domainRepos.HistoryRepository      = (*HistoryRepository)(nil)
	_ domainRepos.UnitOfWork             = UnitOfWork{}
)
