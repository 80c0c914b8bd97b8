package events

import (
	"encoding/json"
	"fmt"

	awsevents "github.com/aws/aws-lambda-go/events"
)

// ParseDynamoDBEvent decodifica el JSON de un lote de DynamoDB Streams
// (el mismo formato que recibe la Lambda) en eventos de cambio.
func ParseDynamoDBEvent(payload []byte) ([]ChangeEvent, error) {
	var evt awsevents.DynamoDBEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("decode dynamodb stream batch: %w", err)
	}
	return FromDynamoDBEvent(evt), nil
}

// FromDynamoDBEvent convierte un lote de DynamoDB Streams al modelo interno.
func FromDynamoDBEvent(evt awsevents.DynamoDBEvent) []ChangeEvent {
	changes := make([]ChangeEvent, 0, len(evt.Records))
	for _, record := range evt.Records {
		changes = append(changes, ChangeEvent{
			EventID: record.EventID,
			Kind:    EventKind(record.EventName),
			Before:  ImageToRecord(record.Change.OldImage),
			After:   ImageToRecord(record.Change.NewImage),
		})
	}
	return changes
}

// ImageToRecord hace el "unmarshall" de una imagen de DynamoDB.
// Una imagen ausente devuelve nil.
func ImageToRecord(image map[string]awsevents.DynamoDBAttributeValue) RawRecord {
	if image == nil {
		return nil
	}
	record := make(RawRecord, len(image))
	for key, av := range image {
		record[key] = attributeToValue(av)
	}
	return record
}

func attributeToValue(av awsevents.DynamoDBAttributeValue) any {
	switch av.DataType() {
	case awsevents.DataTypeString:
		return av.String()
	case awsevents.DataTypeNumber:
		return json.Number(av.Number())
	case awsevents.DataTypeBoolean:
		return av.Boolean()
	case awsevents.DataTypeNull:
		return nil
	case awsevents.DataTypeBinary:
		return av.Binary()
	case awsevents.DataTypeMap:
		m := make(map[string]any, len(av.Map()))
		for key, nested := range av.Map() {
			m[key] = attributeToValue(nested)
		}
		return m
	case awsevents.DataTypeList:
		list := make([]any, 0, len(av.List()))
		for _, nested := range av.List() {
			list = append(list, attributeToValue(nested))
		}
		return list
	case awsevents.DataTypeStringSet:
		set := make([]any, 0, len(av.StringSet()))
		for _, s := range av.StringSet() {
			set = append(set, s)
		}
		return set
	case awsevents.DataTypeNumberSet:
		set := make([]any, 0, len(av.NumberSet()))
		for _, n := range av.NumberSet() {
			set = append(set, json.Number(n))
		}
		return set
	case awsevents.DataTypeBinarySet:
		set := make([]any, 0, len(av.BinarySet()))
		for _, b := range av.BinarySet() {
			set = append(set, b)
		}
		return set
	default:
		return nil
	}
}
