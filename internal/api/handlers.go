package api

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// Wire field names shared by the JSON and Struct encodings.
const (
	fieldBirthDate = "birth_date"
	fieldBirthTime = "birth_time"
	fieldLatitude  = "latitude"
	fieldLongitude = "longitude"
)

// BirthRequest is the body of the positions and dasha requests.
type BirthRequest struct {
	BirthDate string   `json:"birth_date"`
	BirthTime string   `json:"birth_time"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ToModel checks that every field is present and maps the request into the domain input.
func (r BirthRequest) ToModel() (models.BirthInput, error) {
	var missing []string
	if r.BirthDate == "" {
		missing = append(missing, fieldBirthDate)
	}
	if r.BirthTime == "" {
		missing = append(missing, fieldBirthTime)
	}
	if r.Latitude == nil {
		missing = append(missing, fieldLatitude)
	}
	if r.Longitude == nil {
		missing = append(missing, fieldLongitude)
	}
	if len(missing) > 0 {
		return models.BirthInput{}, utils.NewParseError("request.decode", "missing required fields", fmt.Errorf("%v", missing))
	}
	return models.BirthInput{
		Date:      r.BirthDate,
		Time:      r.BirthTime,
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
	}, nil
}

// BirthInputFromStruct maps a gRPC Struct request into the domain input.
func BirthInputFromStruct(s *structpb.Struct) (models.BirthInput, error) {
	if s == nil {
		return models.BirthInput{}, utils.NewParseError("request.decode", "request is nil", nil)
	}
	fields := s.GetFields()
	var req BirthRequest
	var err error
	if req.BirthDate, err = stringField(fields, fieldBirthDate); err != nil {
		return models.BirthInput{}, err
	}
	if req.BirthTime, err = stringField(fields, fieldBirthTime); err != nil {
		return models.BirthInput{}, err
	}
	if req.Latitude, err = numberField(fields, fieldLatitude); err != nil {
		return models.BirthInput{}, err
	}
	if req.Longitude, err = numberField(fields, fieldLongitude); err != nil {
		return models.BirthInput{}, err
	}
	return req.ToModel()
}

func stringField(fields map[string]*structpb.Value, name string) (string, error) {
	v, ok := fields[name]
	if !ok {
		return "", nil
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", utils.NewParseError("request.decode", fmt.Sprintf("%s must be a string", name), nil)
	}
	return s.StringValue, nil
}

func numberField(fields map[string]*structpb.Value, name string) (*float64, error) {
	v, ok := fields[name]
	if !ok {
		return nil, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return nil, utils.NewParseError("request.decode", fmt.Sprintf("%s must be a number", name), nil)
	}
	value := n.NumberValue
	return &value, nil
}

// SignDegree is a labelled ascendant.
type SignDegree struct {
	Sign   string  `json:"sign"`
	Degree float64 `json:"degree"`
}

// PositionsResponse is the positions payload.
type PositionsResponse struct {
	AscendantTropical SignDegree         `json:"ascendant_tropical"`
	AscendantSidereal SignDegree         `json:"ascendant_sidereal"`
	PlanetaryTropical map[string]float64 `json:"planetary_positions_tropical"`
	PlanetarySidereal map[string]float64 `json:"planetary_positions_sidereal"`
}

// NewPositionsResponse labels a result with the given sign vocabulary.
func NewPositionsResponse(res models.PositionsResult, names [locale.SignCount]string) PositionsResponse {
	return PositionsResponse{
		AscendantTropical: signDegree(res.AscendantTropical, names),
		AscendantSidereal: signDegree(res.AscendantSidereal, names),
		PlanetaryTropical: res.PlanetaryTropical.Labelled(),
		PlanetarySidereal: res.PlanetarySidereal.Labelled(),
	}
}

func signDegree(pos models.AscendantPosition, names [locale.SignCount]string) SignDegree {
	sign := pos.Label.Sign
	if i := pos.Label.SignIndex; i >= 0 && i < locale.SignCount {
		sign = names[i]
	}
	return SignDegree{Sign: sign, Degree: pos.Degree}
}

// Struct encodes the response for the gRPC surface.
func (p PositionsResponse) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"ascendant_tropical":           signDegreeMap(p.AscendantTropical),
		"ascendant_sidereal":           signDegreeMap(p.AscendantSidereal),
		"planetary_positions_tropical": anyMap(p.PlanetaryTropical),
		"planetary_positions_sidereal": anyMap(p.PlanetarySidereal),
	})
}

func signDegreeMap(s SignDegree) map[string]interface{} {
	return map[string]interface{}{"sign": s.Sign, "degree": s.Degree}
}

func anyMap(m map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Dasha is the simplified Vimshottari schedule.
type Dasha struct {
	Start      float64 `json:"start"`
	TotalYears int     `json:"total_years"`
}

// DashaResponse is the schedule payload.
type DashaResponse struct {
	VimshottariDasha Dasha `json:"vimshottari_dasha"`
}

// NewDashaResponse maps a schedule result onto the wire shape.
func NewDashaResponse(res models.ScheduleResult) DashaResponse {
	return DashaResponse{VimshottariDasha: Dasha{
		Start:      res.VimshottariDasha.Start,
		TotalYears: res.VimshottariDasha.TotalYears,
	}}
}

// Struct encodes the response for the gRPC surface.
func (d DashaResponse) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"vimshottari_dasha": map[string]interface{}{
			"start":       d.VimshottariDasha.Start,
			"total_years": d.VimshottariDasha.TotalYears,
		},
	})
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
