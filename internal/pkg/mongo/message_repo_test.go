package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestToggleReaction(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("同 emoji 二次表态撤销", func(mt *mtest.T) {
		repo := &messageRepoImpl{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		removed, err := repo.ToggleReaction(context.Background(), primitive.NewObjectID().Hex(), 9, "👍")
		require.NoError(mt, err)
		assert.True(mt, removed)

		// 命中撤销分支后不能再有后续写入
		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("换 emoji 先清旧表态再写入", func(mt *mtest.T) {
		repo := &messageRepoImpl{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		removed, err := repo.ToggleReaction(context.Background(), primitive.NewObjectID().Hex(), 9, "🎉")
		require.NoError(mt, err)
		assert.False(mt, removed)

		// 条件撤销未命中后是 pull + push 两步，保证每人至多一条表态
		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)

		evt = mt.GetStartedEvent()
		require.NotNil(mt, evt)
		pull := evt.Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("u").Document()
		_, err = pull.LookupErr("$pull")
		assert.NoError(mt, err)

		evt = mt.GetStartedEvent()
		require.NotNil(mt, evt)
		push := evt.Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("u").Document()
		_, err = push.LookupErr("$push")
		assert.NoError(mt, err)
	})

	mt.Run("消息不存在", func(mt *mtest.T) {
		repo := &messageRepoImpl{coll: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		_, err := repo.ToggleReaction(context.Background(), primitive.NewObjectID().Hex(), 9, "👍")
		assert.ErrorIs(mt, err, ErrMessageNotFound)
	})

	mt.Run("非法 ID 不发请求", func(mt *mtest.T) {
		repo := &messageRepoImpl{coll: mt.Coll}
		_, err := repo.ToggleReaction(context.Background(), "not-an-oid", 9, "👍")
		assert.ErrorIs(mt, err, ErrMessageNotFound)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestAddReadReceipts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("按查到的 ID 集合更新", func(mt *mtest.T) {
		repo := &messageRepoImpl{coll: mt.Coll}
		oid1 := primitive.NewObjectID()
		oid2 := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "murmur.messages", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: oid1}},
				bson.D{{Key: "_id", Value: oid2}},
			),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}),
		)

		ids, err := repo.AddReadReceipts(context.Background(), 7, 9, time.Now())
		require.NoError(mt, err)
		assert.Equal(mt, []string{oid1.Hex(), oid2.Hex()}, ids)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "find", evt.CommandName)

		// 写入必须限定在刚查到的 _id 集合上，
		// 两步之间新插入的消息不能拿到回执却不出现在返回列表里
		evt = mt.GetStartedEvent()
		require.NotNil(mt, evt)
		require.Equal(mt, "update", evt.CommandName)
		q := evt.Command.Lookup("updates").Array().Index(0).Value().Document().Lookup("q").Document()
		in, err := q.LookupErr("_id", "$in")
		require.NoError(mt, err)
		vals, err := in.Array().Values()
		require.NoError(mt, err)
		assert.Len(mt, vals, 2)
	})

	mt.Run("没有待回执消息时不发更新", func(mt *mtest.T) {
		repo := &messageRepoImpl{coll: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "murmur.messages", mtest.FirstBatch))

		ids, err := repo.AddReadReceipts(context.Background(), 7, 9, time.Now())
		require.NoError(mt, err)
		assert.Empty(mt, ids)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "find", evt.CommandName)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}
