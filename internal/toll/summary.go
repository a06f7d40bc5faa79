package toll

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxPlazas is how many toll plazas a summary keeps, in provider order
	MaxPlazas       = 5
	defaultCurrency = "INR"
)

// Summary is the normalized toll data for one route. Nil totals mean the
// provider did not say; zero is a real answer.
type Summary struct {
	TotalTagCost  *float64 `json:"totalTagCost"`
	TotalCashCost *float64 `json:"totalCashCost"`
	TotalFuelCost *float64 `json:"totalFuelCost"`
	Currency      string   `json:"currency"`
	Tolls         []Plaza  `json:"tolls"`
}

// Plaza is a single toll point on the route
type Plaza struct {
	Name     string   `json:"name"`
	Road     string   `json:"road"`
	State    string   `json:"state"`
	TagCost  *float64 `json:"tagCost"`
	CashCost *float64 `json:"cashCost"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Agency   string   `json:"agency"`
}

// EmptySummary is the summary of a missing or unusable response
func EmptySummary() Summary {
	return Summary{Currency: defaultCurrency, Tolls: []Plaza{}}
}

type object = map[string]interface{}

// Summarize normalizes a raw provider response. It never fails: empty,
// malformed or non-object input yields EmptySummary.
func Summarize(raw []byte) Summary {
	out := EmptySummary()

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data object
	if err := dec.Decode(&data); err != nil || data == nil {
		return out
	}

	route := asObject(data["route"])
	costs := asObject(route["costs"])

	out.Currency = firstString(defaultCurrency, asObject(data["summary"])["currency"], route["currency"])
	out.TotalTagCost = toNumber(firstPresent(costs, "tag", "tagAndCash", "minimumTollCost"))
	out.TotalCashCost = toNumber(firstPresent(costs, "cash", "maximumTollCost"))
	out.TotalFuelCost = toNumber(costs["fuel"])

	entries, _ := route["tolls"].([]interface{})
	if len(entries) > MaxPlazas {
		entries = entries[:MaxPlazas]
	}
	for _, e := range entries {
		out.Tolls = append(out.Tolls, plazaFrom(asObject(e)))
	}
	return out
}

func plazaFrom(e object) Plaza {
	p := Plaza{
		Name:     firstString("Toll Plaza", e["name"], e["road"]),
		Road:     firstString("", e["road"]),
		State:    firstString("", e["state"]),
		TagCost:  toNumber(firstPresent(e, "tagCost", "tagPriCost", "tagSecondaryCost")),
		CashCost: toNumber(e["cashCost"]),
		Lat:      coordinate(e, "lat", 1),
		Lng:      coordinate(e, "lng", 0),
	}
	if agencies, ok := e["tollAgencyNames"].([]interface{}); ok && len(agencies) > 0 {
		p.Agency, _ = agencies[0].(string)
	}
	return p
}

// coordinate reads a numeric axis field, falling back to the GeoJSON
// point.geometry.coordinates pair ([lng, lat]).
func coordinate(e object, axis string, index int) *float64 {
	if n, ok := e[axis].(json.Number); ok {
		return toNumber(n)
	}
	coords, _ := asObject(asObject(e["point"])["geometry"])["coordinates"].([]interface{})
	if len(coords) >= 2 {
		return toNumber(coords[index])
	}
	return nil
}

// toNumber coerces JSON numbers and numeric strings; anything else,
// including empty strings and booleans, is unknown.
func toNumber(v interface{}) *float64 {
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return nil
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// firstPresent returns the first key whose value is present and non-null.
// A present but unusable value still wins; later keys are not consulted.
func firstPresent(o object, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := o[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstString(def string, values ...interface{}) string {
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func asObject(v interface{}) object {
	o, _ := v.(map[string]interface{})
	return o
}

// Overrides picks the cost model overrides a summary supports: tolls from
// the tag total (cash if no tag total), fuel from the fuel hint.
func Overrides(s *Summary) (fuel, tolls *float64) {
	if s == nil {
		return nil, nil
	}
	tolls = s.TotalTagCost
	if tolls == nil {
		tolls = s.TotalCashCost
	}
	return s.TotalFuelCost, tolls
}
