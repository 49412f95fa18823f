package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"

	json "github.com/goccy/go-json"
	"github.com/iwvelando/frilans-calc/pkg/home"
	"go.uber.org/zap"
)

// ShareParam is the query parameter holding encoded scenarios.
const ShareParam = "data"

// shortKeys maps long JSON keys to the codes used in shared links.
var shortKeys = map[string]string{
	"startingAmount":        "sA",
	"monthlyDeposit":        "mD",
	"expectedYearlyGrowth":  "eYG",
	"investmentAccountType": "iAT",
	"downPayment":           "dP",
	"loanAmount":            "lA",
	"yearlyInterestRate":    "yIR",
	"monthlyAmortering":     "mA",
	"monthlyCosts":          "mC",
	"yearlyIncrease":        "yI",
	"amorteringsbefrielse":  "aB",
	"expectedSellingPrice":  "eSP",
	"yearlyPriceGrowth":     "yPG",
	"yearsUntilSale":        "yUS",
	"mäklarkostnad":         "mK",
	"investment":            "i",
	"homeOwnership":         "hO",
	"selling":               "s",
	"isBaseline":            "iB",
	"avgift":                "av",
	"drift":                 "dr",
	"värme":                 "vä",
	"försäkring":            "fö",
	"övrigt":                "öv",
}

var longKeys = func() map[string]string {
	m := make(map[string]string, len(shortKeys))
	for long, short := range shortKeys {
		m[short] = long
	}
	return m
}()

// ErrEmptyShare is returned when a link carries no scenario data.
var ErrEmptyShare = errors.New("no shared data")

// renameKeys rewrites object keys throughout a decoded JSON document.
// Values, including strings equal to a key, are left alone.
func renameKeys(v any, names map[string]string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			if renamed, ok := names[k]; ok {
				k = renamed
			}
			out[k] = renameKeys(child, names)
		}
		return out
	case []any:
		for i, child := range t {
			t[i] = renameKeys(child, names)
		}
		return t
	default:
		return v
	}
}

func transformKeys(data []byte, names map[string]string) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return json.Marshal(renameKeys(doc, names))
}

// Compress shortens known keys of a JSON document and base64-encodes it.
func Compress(data []byte) (string, error) {
	short, err := transformKeys(data, shortKeys)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(short), nil
}

// Decompress reverses Compress.
func Decompress(token string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return transformKeys(raw, longKeys)
}

// EncodeScenarios serializes and compresses a scenario list.
func EncodeScenarios(scenarios []home.Scenario) (string, error) {
	data, err := json.Marshal(scenarios)
	if err != nil {
		return "", fmt.Errorf("failed to encode scenarios: %w", err)
	}
	return Compress(data)
}

// DecodeScenarios reverses EncodeScenarios.
func DecodeScenarios(token string) ([]home.Scenario, error) {
	if token == "" {
		return nil, ErrEmptyShare
	}
	data, err := Decompress(token)
	if err != nil {
		return nil, err
	}
	var scenarios []home.Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("failed to decode scenarios: %w", err)
	}
	return scenarios, nil
}

// ShareURL returns base with the encoded scenarios as its data parameter.
// Any existing query and fragment of base are dropped.
func ShareURL(base string, scenarios []home.Scenario) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	token, err := EncodeScenarios(scenarios)
	if err != nil {
		return "", err
	}
	u.RawQuery = url.Values{ShareParam: []string{token}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// ScenariosFromURL extracts shared scenarios from a link. Links without data
// or with undecodable data yield nil; decode failures are logged.
func ScenariosFromURL(logger *zap.Logger, raw string) []home.Scenario {
	if logger == nil {
		logger = zap.NewNop()
	}

	u, err := url.Parse(raw)
	if err != nil {
		logger.Warn("failed to parse shared URL",
			zap.String("op", "storage.ScenariosFromURL"),
			zap.Error(err),
		)
		return nil
	}

	token := u.Query().Get(ShareParam)
	if token == "" {
		return nil
	}

	scenarios, err := DecodeScenarios(token)
	if err != nil {
		logger.Warn("failed to load scenarios from URL",
			zap.String("op", "storage.ScenariosFromURL"),
			zap.Error(err),
		)
		return nil
	}
	return scenarios
}
