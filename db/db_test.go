package db

import (
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory, keyed by PK.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items   map[string]map[string]*dynamodb.AttributeValue
	batches int
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	if f.items == nil {
		f.items = make(map[string]map[string]*dynamodb.AttributeValue)
	}
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	f.batches++
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func metadata(id string) model.PerformanceMetadata {
	return model.PerformanceMetadata{
		Id:         id,
		Source:     "walk.csv",
		Seed:       18446744073709551615,
		Ticks:      12,
		DurationMs: 4750,
		MidiPath:   "out/" + id + ".mid",
		CreatedAt:  time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC),
	}
}

func TestItemConversion(t *testing.T) {
	m := metadata("a")
	item := toItem(m)
	assert.Equal(t, "a", *item["PK"].S)
	_, hasWav := item["WavPath"]
	assert.False(t, hasWav)

	back, err := fromItem(item)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestFromItemRejectsBadNumbers(t *testing.T) {
	item := toItem(metadata("a"))
	item["Ticks"] = &dynamodb.AttributeValue{N: aws.String("many")}
	_, err := fromItem(item)
	assert.ErrorContains(t, err, "Ticks")

	_, err = fromItem(map[string]*dynamodb.AttributeValue{})
	assert.Error(t, err)
}

func TestPutAndGetPerformances(t *testing.T) {
	fake := &fakeDynamo{}
	store := newStore(fake, "perfs")

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.PutPerformance(metadata(id)))
	}

	res, err := store.GetPerformances([]string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, metadata("c"), res["c"])
	assert.Equal(t, 1, fake.batches)
}

func TestGetPerformancesLimits(t *testing.T) {
	fake := &fakeDynamo{}
	store := newStore(fake, "perfs")

	res, err := store.GetPerformances(nil)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Equal(t, 0, fake.batches)

	var ids []string
	for i := 0; i < 11; i++ {
		ids = append(ids, fmt.Sprint(i))
	}
	_, err = store.GetPerformances(ids)
	assert.ErrorIs(t, err, ErrTooManyIds)
}

func TestNewStoreNeedsEndpoint(t *testing.T) {
	_, err := NewStore(config.Dynamo{Region: "localhost", Table: "perfs"})
	assert.Error(t, err)

	store, err := NewStore(config.Dynamo{Endpoint: "http://localhost:8000", Region: "localhost", Table: "perfs"})
	require.NoError(t, err)
	assert.Equal(t, "perfs", store.table)
}
