package mongostore

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/emeena/quotation-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sortFields maps API sort fields to document paths
var sortFields = map[string]string{
	"createdAt":      "createdAt",
	"updatedAt":      "updatedAt",
	"date":           "date",
	"documentNumber": "documentNumber",
	"clientName":     "client.name",
	"grandTotal":     "grandTotal",
	"status":         "status",
}

// BuildDocumentFilter converts a repository filter into a query document.
// The client name is matched as a case-insensitive literal substring.
func BuildDocumentFilter(filter repository.DocumentFilter) bson.M {
	query := bson.M{}
	if filter.OwnerID != nil {
		query["preparedByUserId"] = filter.OwnerID.String()
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lt"] = repository.EndOfDay(*filter.EndDate)
		}
		query["date"] = dateRange
	}
	if name := strings.TrimSpace(filter.ClientName); name != "" {
		query["client.name"] = primitive.Regex{Pattern: regexp.QuoteMeta(name), Options: "i"}
	}
	return query
}

// buildFindOptions applies sort, skip and limit for a page
func buildFindOptions(opts repository.ListOptions) *options.FindOptions {
	opts = opts.Normalize()

	field, ok := sortFields[opts.Sort.Field]
	if !ok {
		field = "createdAt"
	}
	direction := -1
	if opts.Sort.Order == repository.SortOrderAsc {
		direction = 1
	}

	return options.Find().
		SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: -1}}).
		SetSkip(int64(opts.Offset())).
		SetLimit(int64(opts.Limit))
}

// statsPipeline groups matching documents by status
func statsPipeline(filter repository.DocumentFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: BuildDocumentFilter(filter)}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$status",
			"count":      bson.M{"$sum": 1},
			"totalValue": bson.M{"$sum": "$grandTotal"},
		}}},
	}
}

type statusGroup struct {
	Status     string  `bson:"_id"`
	Count      int64   `bson:"count"`
	TotalValue float64 `bson:"totalValue"`
}

// translateError maps driver errors onto the repository sentinels
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrRecordNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", repository.ErrDuplicateKey, err)
	}
	return err
}
