package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	domainRepos "payportal.backend/internal/domain/repositories"
	"payportal.backend/pkg/utils"
)

// UserRepository stores customers in the users collection
type UserRepository struct {
	coll *mongo.Collection
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == uuid.Nil {
		user.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	_, err := r.coll.InsertOne(ctx, &userDoc{
		ID:            user.ID.String(),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Email:         user.Email,
		Username:      user.Username,
		PasswordHash:  user.PasswordHash,
		AccountNumber: user.AccountNumber,
		IDNumber:      user.IDNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	return translateError(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"accountNumber": accountNumber})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return updatePassword(ctx, r.coll, id, passwordHash)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toEntity(), nil
}

// EmployeeRepository stores employees in the employees collection
type EmployeeRepository struct {
	coll *mongo.Collection
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *entities.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	employee.CreatedAt, employee.UpdatedAt = now, now

	_, err := r.coll.InsertOne(ctx, &employeeDoc{
		ID:           employee.ID.String(),
		Username:     employee.Username,
		PasswordHash: employee.PasswordHash,
		FirstName:    employee.FirstName,
		LastName:     employee.LastName,
		Role:         employee.Role.Ptr(),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	return translateError(err)
}

func (r *EmployeeRepository) GetByUsername(ctx context.Context, username string) (*entities.Employee, error) {
	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toEntity(), nil
}

func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return updatePassword(ctx, r.coll, id, passwordHash)
}

func updatePassword(ctx context.Context, coll *mongo.Collection, id uuid.UUID, passwordHash string) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return domainerrors.ErrNoRowsAffected
	}
	return nil
}

// PaymentRepository stores payments in the payments collection
type PaymentRepository struct {
	coll *mongo.Collection
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = utils.GenerateUUIDv7()
	}
	if payment.Status == "" {
		payment.Status = entities.PaymentStatusPending
	}
	now := time.Now().UTC()
	payment.CreatedAt, payment.UpdatedAt = now, now

	doc, err := newPaymentDoc(payment)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var doc paymentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toEntity(), nil
}

func (r *PaymentRepository) ListByStatus(ctx context.Context, status entities.PaymentStatus) ([]*entities.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"status": string(status)}, opts)
}

func (r *PaymentRepository) ListByUsername(ctx context.Context, username string, statuses []entities.PaymentStatus, page utils.PaginationParams) ([]*entities.Payment, int64, error) {
	filter := bson.M{"username": username}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		filter["status"] = bson.M{"$in": values}
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	applyPage(opts, page)
	payments, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *PaymentRepository) Transition(ctx context.Context, req domainRepos.TransitionRequest) (*entities.Payment, error) {
	filter := bson.M{"_id": req.ID.String()}
	if req.FromPendingOnly {
		filter["status"] = string(entities.PaymentStatusPending)
	}

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"status":              string(req.To),
			"reviewedBy":          req.ReviewedBy,
			"notificationPending": true,
			"updatedAt":           time.Now().UTC(),
		},
		"$inc": bson.M{"revision": 1},
	})
	if err != nil {
		return nil, translateError(err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, req.ID); err != nil {
			return nil, err
		}
		return nil, domainerrors.ErrAlreadyResolved
	}
	return r.GetByID(ctx, req.ID)
}

func (r *PaymentRepository) ListNotificationPending(ctx context.Context, limit int) ([]*entities.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"notificationPending": true}, opts)
}

func (r *PaymentRepository) ClearNotificationPending(ctx context.Context, id uuid.UUID, revision int) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "revision": revision},
		bson.M{"$set": bson.M{"notificationPending": false}},
	)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	return nil
}

func (r *PaymentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entities.Payment, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	var docs []paymentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	out := make([]*entities.Payment, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

// NotificationRepository stores notifications in the notifications collection
type NotificationRepository struct {
	coll *mongo.Collection
}

func (r *NotificationRepository) Create(ctx context.Context, n *entities.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = utils.GenerateUUIDv7()
	}
	if !n.Read.Valid {
		n.Read = null.BoolFrom(false)
	}
	n.CreatedAt = time.Now().UTC()

	doc, err := newNotificationDoc(n)
	if err != nil {
		return err
	}
	return insertLinked(ctx, r.coll, doc)
}

func (r *NotificationRepository) ListByUsername(ctx context.Context, username string) ([]*entities.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	docs, err := findRecords(ctx, r.coll, bson.M{"username": username}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Notification, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toNotification())
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, username string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "username": username},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// HistoryRepository stores history entries in the transactionHistory collection
type HistoryRepository struct {
	coll *mongo.Collection
}

func (r *HistoryRepository) Create(ctx context.Context, h *entities.TransactionHistory) error {
	if h.ID == uuid.Nil {
		h.ID = utils.GenerateUUIDv7()
	}
	h.CreatedAt = time.Now().UTC()

	doc, err := newHistoryDoc(h)
	if err != nil {
		return err
	}
	return insertLinked(ctx, r.coll, doc)
}

func (r *HistoryRepository) List(ctx context.Context, username string, page utils.PaginationParams) ([]*entities.TransactionHistory, int64, error) {
	filter := bson.M{}
	if username != "" {
		filter["username"] = username
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	applyPage(opts, page)
	docs, err := findRecords(ctx, r.coll, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*entities.TransactionHistory, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toHistory())
	}
	return out, total, nil
}

// insertLinked ignores a duplicate (paymentId, revision) so replays are harmless
func insertLinked(ctx context.Context, coll *mongo.Collection, doc *recordDoc) error {
	_, err := coll.InsertOne(ctx, doc)
	if err != nil && doc.PaymentID != nil && mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return translateError(err)
}

func findRecords(ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]recordDoc, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateError(err)
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateError(err)
	}
	return docs, nil
}

func applyPage(opts *options.FindOptions, page utils.PaginationParams) {
	if page.Unbounded() {
		return
	}
	opts.SetSkip(int64(page.CalculateOffset())).SetLimit(int64(page.Limit))
}
