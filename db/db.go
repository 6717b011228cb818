package db

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jsphweid/gyrotone/config"
	"github.com/jsphweid/gyrotone/constants"
	"github.com/jsphweid/gyrotone/model"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
)

var ErrTooManyIds = fmt.Errorf("at most %v ids per batch", constants.MaxMetadataBatch)

// Store keeps performance metadata in a DynamoDB table keyed by PK.
type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewStore(cfg config.Dynamo) (*Store, error) {
	if !cfg.Enabled() {
		return nil, errors.New("dynamo endpoint is not configured")
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(cfg.Region),
		Endpoint: aws.String(cfg.Endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create a new DynamoDB session: %w", err)
	}
	return newStore(dynamodb.New(sess), cfg.Table), nil
}

func newStore(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

func (s *Store) PutPerformance(m model.PerformanceMetadata) error {
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      toItem(m),
	})
	if err != nil {
		return fmt.Errorf("error from DynamoDB: %w", err)
	}
	return nil
}

// GetPerformances looks up to MaxMetadataBatch ids at once. Unknown ids are
// missing from the result.
func (s *Store) GetPerformances(ids []string) (map[string]model.PerformanceMetadata, error) {
	if len(ids) > constants.MaxMetadataBatch {
		return nil, ErrTooManyIds
	}

	res := make(map[string]model.PerformanceMetadata)

	if len(ids) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		})
	}

	out, err := s.client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error from DynamoDB: %w", err)
	}

	for _, v := range out.Responses[s.table] {
		m, err := fromItem(v)
		if err != nil {
			return nil, err
		}
		res[m.Id] = m
	}
	return res, nil
}

func toItem(m model.PerformanceMetadata) map[string]*dynamodb.AttributeValue {
	item := map[string]*dynamodb.AttributeValue{
		"PK":         {S: aws.String(m.Id)},
		"Source":     {S: aws.String(m.Source)},
		"Seed":       {N: aws.String(strconv.FormatUint(m.Seed, 10))},
		"Ticks":      {N: aws.String(strconv.Itoa(m.Ticks))},
		"DurationMs": {N: aws.String(strconv.FormatInt(m.DurationMs, 10))},
		"CreatedAt":  {S: aws.String(m.CreatedAt.UTC().Format(time.RFC3339Nano))},
	}
	if m.MidiPath != "" {
		item["MidiPath"] = &dynamodb.AttributeValue{S: aws.String(m.MidiPath)}
	}
	if m.WavPath != "" {
		item["WavPath"] = &dynamodb.AttributeValue{S: aws.String(m.WavPath)}
	}
	return item
}

func str(v map[string]*dynamodb.AttributeValue, name string) string {
	if a, ok := v[name]; ok && a.S != nil {
		return *a.S
	}
	return ""
}

func num(v map[string]*dynamodb.AttributeValue, name string) (int64, error) {
	a, ok := v[name]
	if !ok || a.N == nil {
		return 0, nil
	}
	n, err := strconv.ParseInt(*a.N, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %v: %w", name, err)
	}
	return n, nil
}

func fromItem(v map[string]*dynamodb.AttributeValue) (model.PerformanceMetadata, error) {
	var m model.PerformanceMetadata
	m.Id = str(v, "PK")
	if m.Id == "" {
		return m, errors.New("item without PK")
	}
	m.Source = str(v, "Source")
	m.MidiPath = str(v, "MidiPath")
	m.WavPath = str(v, "WavPath")

	if a, ok := v["Seed"]; ok && a.N != nil {
		seed, err := strconv.ParseUint(*a.N, 10, 64)
		if err != nil {
			return m, fmt.Errorf("bad Seed: %w", err)
		}
		m.Seed = seed
	}
	ticks, err := num(v, "Ticks")
	if err != nil {
		return m, err
	}
	m.Ticks = int(ticks)
	if m.DurationMs, err = num(v, "DurationMs"); err != nil {
		return m, err
	}
	if created := str(v, "CreatedAt"); created != "" {
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return m, fmt.Errorf("bad CreatedAt: %w", err)
		}
		m.CreatedAt = t
	}
	return m, nil
}
