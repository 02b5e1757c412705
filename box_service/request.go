package box_service

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/guregu/null.v4"
)

// EntryRequest is a box entry as sent by a client, before validation.
type EntryRequest struct {
	Name      null.String
	Sprite    string
	CP        null.Int
	QuickMove null.String
	// empty names are dropped
	ChargeMoves []string
}

// ParseEntryRequest reads an entry from a JSON object body. 'charge_moves'
// may be a list or a single string, and the older 'charge_move' key is
// used when 'charge_moves' is missing.
func ParseEntryRequest(body []byte) (EntryRequest, error) {
	var req EntryRequest

	if !gjson.ValidBytes(body) {
		return req, validationErrorf("Invalid JSON body")
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return req, validationErrorf("Invalid JSON body: expected an object")
	}

	req.Name = optionalString(doc.Get("name"))
	req.Sprite = strings.TrimSpace(doc.Get("sprite").String())
	req.QuickMove = optionalString(doc.Get("quick_move"))

	chargeMoves := doc.Get("charge_moves")
	if !chargeMoves.Exists() || chargeMoves.Type == gjson.Null {
		chargeMoves = doc.Get("charge_move")
	}
	req.ChargeMoves = parseChargeMoves(chargeMoves)

	if cp := doc.Get("cp"); cp.Exists() && cp.Type != gjson.Null {
		val, ok := parseCP(cp)
		if !ok {
			return req, validationErrorf("Invalid cp value")
		}
		req.CP = null.IntFrom(val)
	}

	return req, nil
}

func optionalString(value gjson.Result) null.String {
	if value.Type != gjson.String {
		return null.String{}
	}
	if s := strings.TrimSpace(value.Str); s != "" {
		return null.StringFrom(s)
	}
	return null.String{}
}

func parseChargeMoves(value gjson.Result) []string {
	chargeMoves := make([]string, 0, 2)

	switch {
	case value.Type == gjson.String:
		if s := strings.TrimSpace(value.Str); s != "" {
			chargeMoves = append(chargeMoves, s)
		}
	case value.IsArray():
		value.ForEach(func(_, item gjson.Result) bool {
			if item.Type == gjson.String {
				if s := strings.TrimSpace(item.Str); s != "" {
					chargeMoves = append(chargeMoves, s)
				}
			}
			return true
		})
	}

	return chargeMoves
}

// parseCP accepts integral numbers and strings holding one.
func parseCP(value gjson.Result) (int64, bool) {
	switch value.Type {
	case gjson.Number:
		if val, err := strconv.ParseInt(value.Raw, 10, 64); err == nil {
			return val, true
		}
		f := value.Num
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int64(f), true
	case gjson.String:
		val, err := strconv.ParseInt(strings.TrimSpace(value.Str), 10, 64)
		return val, err == nil
	}
	return 0, false
}
