package mongo

import (
	"Courier/internal/pkg/consts"
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUnknownRole = errors.New("unknown user role")

// UserRepo 用户身份查询，客户与服务商分别存放在不同集合
type UserRepo interface {
	Exists(ctx context.Context, role string, userID gocql.UUID) (bool, error)
}

type userRepoImpl struct {
	db *mongo.Database
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepoImpl{db: db}
}

// Exists 按角色到对应集合中查找用户，只投影 _id
func (s *userRepoImpl) Exists(ctx context.Context, role string, userID gocql.UUID) (bool, error) {
	collection, err := CollectionForRole(role)
	if err != nil {
		return false, err
	}

	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": DocumentID(userID)}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CollectionForRole 角色到集合名的映射
func CollectionForRole(role string) (string, error) {
	switch role {
	case consts.RoleCustomer:
		return consts.CustomerCollection, nil
	case consts.RoleServiceProvider:
		return consts.ServiceProviderCollection, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// DocumentID 用户 _id 以 UUID 二进制 (subtype 4) 存储
func DocumentID(userID gocql.UUID) primitive.Binary {
	return primitive.Binary{Subtype: bson.TypeBinaryUUID, Data: userID.Bytes()}
}
