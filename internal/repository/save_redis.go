package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/connect-four/internal/apperror"
)

// savesIndex holds every save name with score 0, so ZRANGE returns them sorted.
const savesIndex = "saves"

type redisSaves struct {
	client *redis.Client
}

func NewRedisSaveRepository(client *redis.Client) SaveRepository {
	return &redisSaves{
		client: client,
	}
}

func (that *redisSaves) List(ctx context.Context) ([]string, error) {
	names, err := that.client.ZRange(ctx, savesIndex, 0, -1).Result()
	if err != nil {
		return nil, apperror.IO("failed to list saves", err)
	}

	return names, nil
}

func (that *redisSaves) Write(ctx context.Context, name string, blob []byte) error {
	if err := ValidateSaveName(name); err != nil {
		return err
	}

	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, saveKey(name), blob, 0)
		pipe.ZAdd(ctx, savesIndex, redis.Z{Score: 0, Member: name})
		return nil
	})
	if err != nil {
		return apperror.IO("failed to write save "+name, err)
	}

	return nil
}

func (that *redisSaves) Read(ctx context.Context, name string) ([]byte, error) {
	blob, err := that.client.Get(ctx, saveKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.IO("failed to read save "+name, ErrSaveNotFound)
	}

	if err != nil {
		return nil, apperror.IO("failed to read save "+name, err)
	}

	return blob, nil
}

func saveKey(name string) string {
	return fmt.Sprintf("save:%s", name)
}
