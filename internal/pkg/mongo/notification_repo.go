package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepo interface {
	Create(ctx context.Context, n *Notification) error
	// List 按 _id 倒序翻页
	List(ctx context.Context, receiverID uint64, cursor string, limit int64) ([]*Notification, error)
	GetByID(ctx context.Context, id string) (*Notification, error)
	MarkRead(ctx context.Context, receiverID uint64, id string) error
	MarkAllRead(ctx context.Context, receiverID uint64) (int64, error)
	UnreadCount(ctx context.Context, receiverID uint64) (int64, error)
	// DeleteBefore 清理早于给定时间的已读通知，返回删除条数
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type notificationRepoImpl struct {
	coll *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{coll: db.Collection("notifications")}
}

func (r *notificationRepoImpl) Create(ctx context.Context, n *Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, n)
	return err
}

func (r *notificationRepoImpl) List(ctx context.Context, receiverID uint64, cursor string, limit int64) ([]*Notification, error) {
	filter := bson.M{"receiver_id": receiverID}
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, ErrNotificationNotFound
		}
		filter["_id"] = bson.M{"$lt": oid}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []*Notification
	if err = cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *notificationRepoImpl) GetByID(ctx context.Context, id string) (*Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotificationNotFound
	}
	var n Notification
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepoImpl) MarkRead(ctx context.Context, receiverID uint64, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "receiver_id": receiverID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepoImpl) MarkAllRead(ctx context.Context, receiverID uint64) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepoImpl) UnreadCount(ctx context.Context, receiverID uint64) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"receiver_id": receiverID, "is_read": false})
}

func (r *notificationRepoImpl) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{
		"is_read":    true,
		"created_at": bson.M{"$lt": before},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
