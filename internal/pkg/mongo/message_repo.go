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

var ErrMessageNotFound = errors.New("message not found")

type MessageRepo interface {
	Save(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	// GetHistory 按 _id 倒序翻页，cursor 为上一页最旧消息的 ID，空串表示从最新开始
	GetHistory(ctx context.Context, chatID uint64, cursor string, limit int64) ([]*Message, error)
	// AddReadReceipts 给 chat 内他人发送且本人尚未读过的消息批量追加回执，返回受影响的消息 ID
	AddReadReceipts(ctx context.Context, chatID, userID uint64, readAt time.Time) ([]string, error)
	// ToggleReaction 同 emoji 二次表态为撤销；换 emoji 则替换旧表态
	ToggleReaction(ctx context.Context, msgID string, userID uint64, emoji string) (removed bool, err error)
	SetEdited(ctx context.Context, msgID string, senderID uint64, content string) error
	SetDeleted(ctx context.Context, msgID string, senderID uint64) error
	SetPinned(ctx context.Context, msgID string, pinned bool) error
	GetPinned(ctx context.Context, chatID uint64) ([]*Message, error)
	// GetLatestVisible 取会话中最新的未删除消息，用于删除后重算会话摘要
	GetLatestVisible(ctx context.Context, chatID uint64) (*Message, error)
	CountAfter(ctx context.Context, chatID uint64, after time.Time) (int64, error)
}

type messageRepoImpl struct {
	coll *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{coll: db.Collection("messages")}
}

func (r *messageRepoImpl) Save(ctx context.Context, msg *Message) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepoImpl) GetByID(ctx context.Context, id string) (*Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrMessageNotFound
	}
	var msg Message
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepoImpl) GetHistory(ctx context.Context, chatID uint64, cursor string, limit int64) ([]*Message, error) {
	filter := bson.M{"chat_id": chatID}
	if cursor != "" {
		oid, err := primitive.ObjectIDFromHex(cursor)
		if err != nil {
			return nil, ErrMessageNotFound
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

	var msgs []*Message
	if err = cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepoImpl) AddReadReceipts(ctx context.Context, chatID, userID uint64, readAt time.Time) ([]string, error) {
	// 只回执他人发送、本人未读过且未删除的消息
	filter := bson.M{
		"chat_id":         chatID,
		"sender_id":       bson.M{"$ne": userID},
		"is_deleted":      false,
		"read_by.user_id": bson.M{"$ne": userID},
	}

	// 先取受影响消息 ID 供网关广播 message_read 事件
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var hit []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cur.All(ctx, &hit); err != nil {
		return nil, err
	}
	if len(hit) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(hit))
	ids := make([]string, 0, len(hit))
	for _, h := range hit {
		oids = append(oids, h.ID)
		ids = append(ids, h.ID.Hex())
	}

	// 只更新刚查到的那批 _id，两步之间新插入的消息留给下一次回执，
	// 保证写入的集合和广播的 ID 列表一致
	update := bson.M{"$push": bson.M{"read_by": ReadReceipt{UserID: userID, ReadAt: readAt}}}
	if _, err = r.coll.UpdateMany(ctx, bson.M{
		"_id":             bson.M{"$in": oids},
		"read_by.user_id": bson.M{"$ne": userID},
	}, update); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *messageRepoImpl) ToggleReaction(ctx context.Context, msgID string, userID uint64, emoji string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return false, ErrMessageNotFound
	}

	// 已存在同 emoji 表态则撤销
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "reactions": bson.M{"$elemMatch": bson.M{"user_id": userID, "emoji": emoji}}},
		bson.M{"$pull": bson.M{"reactions": bson.M{"user_id": userID}}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	// 否则清掉旧表态再写入新的，保证每人至多一条
	if _, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"reactions": bson.M{"user_id": userID}}},
	); err != nil {
		return false, err
	}
	res, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"reactions": Reaction{UserID: userID, Emoji: emoji, ReactedAt: time.Now()}}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrMessageNotFound
	}
	return false, nil
}

func (r *messageRepoImpl) SetEdited(ctx context.Context, msgID string, senderID uint64, content string) error {
	oid, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrMessageNotFound
	}
	now := time.Now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "sender_id": senderID, "is_deleted": false},
		bson.M{"$set": bson.M{"content": content, "is_edited": true, "edited_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *messageRepoImpl) SetDeleted(ctx context.Context, msgID string, senderID uint64) error {
	oid, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrMessageNotFound
	}
	now := time.Now()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "sender_id": senderID, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now, "content": "", "attachments": nil}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *messageRepoImpl) SetPinned(ctx context.Context, msgID string, pinned bool) error {
	oid, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrMessageNotFound
	}
	update := bson.M{"$set": bson.M{"is_pinned": pinned}}
	if pinned {
		now := time.Now()
		update = bson.M{"$set": bson.M{"is_pinned": true, "pinned_at": now}}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "is_deleted": false}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *messageRepoImpl) GetPinned(ctx context.Context, chatID uint64) ([]*Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "pinned_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"chat_id": chatID, "is_pinned": true, "is_deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []*Message
	if err = cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepoImpl) GetLatestVisible(ctx context.Context, chatID uint64) (*Message, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var msg Message
	err := r.coll.FindOne(ctx, bson.M{"chat_id": chatID, "is_deleted": false}, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepoImpl) CountAfter(ctx context.Context, chatID uint64, after time.Time) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{
		"chat_id":    chatID,
		"is_deleted": false,
		"created_at": bson.M{"$gt": after},
	})
}
