package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

const collectionIngredients = "ingredients"

type IngredientRepository struct {
	col *mongo.Collection
}

func NewIngredientRepository(db *mongo.Database) *IngredientRepository {
	return &IngredientRepository{col: db.Collection(collectionIngredients)}
}

func (r *IngredientRepository) List(ctx context.Context) ([]domain.Ingredient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	ingredients := []domain.Ingredient{}
	if err := cur.All(ctx, &ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *IngredientRepository) FindByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *IngredientRepository) FindByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *IngredientRepository) findOne(ctx context.Context, filter bson.M) (*domain.Ingredient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var i domain.Ingredient
	if err := r.col.FindOne(ctx, filter).Decode(&i); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	return &i, nil
}

// AddInventory increments the stock by delta and returns the updated ingredient.
func (r *IngredientRepository) AddInventory(ctx context.Context, id int64, delta int) (*domain.Ingredient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var i domain.Ingredient
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$inc": bson.M{"inventory": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&i)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("update ingredient: %w", err)
	}
	return &i, nil
}

// EnsureIndexes creates the ingredient name index.
func (r *IngredientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	})
	return err
}
