// Package events encodes route events for the message bus as a
// google.protobuf.Struct, so consumers in any language can read them
// without a generated schema.
package events

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samirrijal/agroshare/internal/core/domain"
	"github.com/samirrijal/agroshare/internal/core/ports"
)

// Encode serialises e to protobuf wire format.
func Encode(e *ports.RouteEvent) ([]byte, error) {
	s, err := toStruct(e)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

// Decode parses a payload produced by Encode.
func Decode(data []byte) (*ports.RouteEvent, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode route event: %w", err)
	}
	f := s.GetFields()
	e := &ports.RouteEvent{
		EventID:     f["event_id"].GetStringValue(),
		ListingID:   f["listing_id"].GetStringValue(),
		Outcome:     f["outcome"].GetStringValue(),
		Reason:      f["reason"].GetStringValue(),
		Origin:      pointFrom(f["origin"]),
		Destination: pointFrom(f["destination"]),
		Points:      int(f["points"].GetNumberValue()),
		At:          int64(f["at"].GetNumberValue()),
		Retry:       f["retry"].GetBoolValue(),
	}
	if v, ok := f["distance_meters"]; ok {
		d := v.GetNumberValue()
		e.DistanceMeters = &d
	}
	if e.EventID == "" || e.Outcome == "" {
		return nil, fmt.Errorf("decode route event: missing event_id or outcome")
	}
	return e, nil
}

// ToJSON re-renders an encoded event as JSON for browser clients.
func ToJSON(data []byte) ([]byte, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode route event: %w", err)
	}
	return protojson.Marshal(&s)
}

func toStruct(e *ports.RouteEvent) (*structpb.Struct, error) {
	m := map[string]interface{}{
		"event_id":    e.EventID,
		"outcome":     e.Outcome,
		"origin":      pointMap(e.Origin),
		"destination": pointMap(e.Destination),
		"points":      e.Points,
		"at":          e.At,
	}
	if e.ListingID != "" {
		m["listing_id"] = e.ListingID
	}
	if e.Reason != "" {
		m["reason"] = e.Reason
	}
	if e.DistanceMeters != nil {
		m["distance_meters"] = *e.DistanceMeters
	}
	if e.Retry {
		m["retry"] = true
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode route event: %w", err)
	}
	return s, nil
}

func pointMap(p domain.GeoPoint) map[string]interface{} {
	return map[string]interface{}{"lat": p.Lat, "lon": p.Lon}
}

func pointFrom(v *structpb.Value) domain.GeoPoint {
	f := v.GetStructValue().GetFields()
	return domain.GeoPoint{Lat: f["lat"].GetNumberValue(), Lon: f["lon"].GetNumberValue()}
}
