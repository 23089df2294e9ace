// Package vin implements ISO 3779 VIN validation, structural decoding
// and check-digit based generation.
package vin

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const vinLength = 17

// ErrUnsupportedYear is returned by Generate and YearCode for years
// outside the supported 1980-2039 window.
var ErrUnsupportedYear = errors.New("unsupported model year")

// Transliteration values per ISO 3779. I, O and Q are not part of the
// VIN alphabet and are deliberately absent.
var transliteration = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5,
	'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

// Position weights per ISO 3779. The check-digit slot itself has weight 0.
var weights = [vinLength]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

var (
	allowedPattern = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	illegalChars   = regexp.MustCompile(`[^A-HJ-NPR-Z0-9]`)
)

// Model-year codes cycle through digits and this fixed 21-letter
// alphabet (no I, O, Q or U), repeating every 30 years.
const yearLetters = "ABCDEFGHJKLMNPRSTVWXY"

// Normalize upper-cases a VIN and strips all spaces.
func Normalize(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, " ", ""))
}

// CheckDigit computes the ISO 3779 check digit over a 17-character VIN.
// The caller is expected to pass a normalized VIN drawn from the allowed
// alphabet; anything else is reported as an error, never a panic.
func CheckDigit(v string) (string, error) {
	if len(v) != vinLength {
		return "", fmt.Errorf("vin: check digit needs %d characters, got %d", vinLength, len(v))
	}
	total := 0
	for i := 0; i < vinLength; i++ {
		val, ok := transliteration[v[i]]
		if !ok {
			return "", fmt.Errorf("vin: illegal character %q at position %d", string(v[i]), i+1)
		}
		total += val * weights[i]
	}
	r := total % 11
	if r == 10 {
		return "X", nil
	}
	return strconv.Itoa(r), nil
}

// IsValid reports whether s normalizes to a well-formed 17-character VIN
// whose check digit matches. Length or charset failures short-circuit to
// false without computing the checksum.
func IsValid(s string) bool {
	v := Normalize(s)
	if !allowedPattern.MatchString(v) {
		return false
	}
	cd, err := CheckDigit(v)
	if err != nil {
		return false
	}
	return v[8:9] == cd
}

// ModelYear resolves a single-character model-year code to its canonical
// year: digits 1-9 read as 2001-2009, letters as 2010-2030. Returns 0
// for codes outside the cycle. Use YearCandidates for the companion
// readings 30 years apart.
func ModelYear(code string) int {
	if len(code) != 1 {
		return 0
	}
	c := code[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c >= '1' && c <= '9' {
		return 2000 + int(c-'0')
	}
	if i := strings.IndexByte(yearLetters, c); i >= 0 {
		return 2010 + i
	}
	return 0
}

// YearCandidates lists every plausible model year for a code, canonical
// reading first is not guaranteed; callers disambiguate externally.
func YearCandidates(code string) []int {
	if len(code) != 1 {
		return nil
	}
	c := code[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c >= '1' && c <= '9' {
		base := 2000 + int(c-'0')
		return []int{base, base + 30}
	}
	if i := strings.IndexByte(yearLetters, c); i >= 0 {
		return []int{1980 + i, 2010 + i}
	}
	return nil
}

// YearCode resolves a model year to its single-character code. Supported
// range is 1980-2039.
func YearCode(year int) (string, error) {
	switch {
	case year >= 2001 && year <= 2009:
		return strconv.Itoa(year - 2000), nil
	case year >= 2010 && year <= 2030:
		return string(yearLetters[year-2010]), nil
	case year >= 2031 && year <= 2039:
		return strconv.Itoa(year - 2030), nil
	case year >= 1980 && year <= 2000:
		return string(yearLetters[year-1980]), nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnsupportedYear, year)
}

// Coarse region by the first VIN character.
var regionByFirst = map[byte]string{
	'1': "North America",
	'2': "North America",
	'3': "North America",
	'4': "North America",
	'5': "North America",
	'J': "Asia (Japan)",
	'K': "Asia (Korea)",
	'L': "Asia (China)",
	'M': "Asia (India)",
	'S': "Europe (UK)",
	'T': "Europe (Switzerland)",
	'V': "Europe (France/Spain)",
	'W': "Europe (Germany)",
	'Y': "Europe (Nordic)",
	'Z': "Europe (Italy)",
}

var brandByWMI = map[string]string{
	"1HG": "Honda USA",
	"1FA": "Ford USA",
	"JHM": "Honda Japan",
	"WVW": "Volkswagen Germany",
	"ZFA": "Fiat Italy",
	"ZAR": "Alfa Romeo Italy",
	"ZFF": "Ferrari Italy",
}

// Decoded is the read-only result of decoding a VIN. All fields are
// best-effort: a malformed input yields Valid false and empty or zero
// fields rather than an error.
type Decoded struct {
	VIN                 string   `json:"vin"`
	Valid               bool     `json:"valid"`
	WMI                 string   `json:"wmi"`
	VDS                 string   `json:"vds"`
	VIS                 string   `json:"vis"`
	CheckDigit          string   `json:"check_digit"`
	CheckDigitValid     *bool    `json:"check_digit_valid"`
	ModelYearCode       string   `json:"model_year_code,omitempty"`
	ModelYear           int      `json:"model_year,omitempty"`
	ModelYearCandidates []int    `json:"model_year_candidates,omitempty"`
	PlantCode           string   `json:"plant_code,omitempty"`
	SerialNumber        string   `json:"serial_number,omitempty"`
	Region              string   `json:"region,omitempty"`
	Brand               string   `json:"brand,omitempty"`
	Notes               []string `json:"notes,omitempty"`
}

// Decode splices a VIN into its structural fields. It never fails:
// inputs shorter than 17 characters degrade to empty fields, and
// CheckDigitValid stays nil (unknown) unless the format gate passed.
func Decode(s string) Decoded {
	v := Normalize(s)
	d := Decoded{VIN: v, Valid: allowedPattern.MatchString(v)}
	if d.Valid {
		if cd, err := CheckDigit(v); err == nil {
			ok := v[8:9] == cd
			d.CheckDigitValid = &ok
		}
	}
	if len(v) >= 3 {
		d.WMI = v[0:3]
	}
	if len(v) >= 8 {
		d.VDS = v[3:8]
	}
	if len(v) >= 9 {
		d.CheckDigit = v[8:9]
	}
	if len(v) >= 10 {
		d.ModelYearCode = v[9:10]
		d.ModelYear = ModelYear(d.ModelYearCode)
		d.ModelYearCandidates = YearCandidates(d.ModelYearCode)
	}
	if len(v) >= 11 {
		d.PlantCode = v[10:11]
	}
	if len(v) >= vinLength {
		d.VIS = v[9:17]
		d.SerialNumber = v[11:17]
	} else if len(v) > 9 {
		d.VIS = v[9:]
	}
	if len(v) > 0 {
		d.Region = regionByFirst[v[0]]
	}
	if d.WMI != "" {
		d.Brand = brandByWMI[d.WMI]
	}
	if strings.HasPrefix(d.Brand, "Fiat") && d.ModelYear == 0 {
		d.Notes = []string{
			"Model year not encoded in position 10 for some EU-market Fiat VINs; manual lookup required.",
		}
	}
	return d
}

// sanitize normalizes a VIN component, replaces illegal characters with
// the pad, then pads or truncates to the required length.
func sanitize(s string, length int, pad byte) string {
	u := illegalChars.ReplaceAllString(Normalize(s), string(pad))
	for len(u) < length {
		u += string(pad)
	}
	return u[:length]
}

// Generate assembles a valid VIN from its components, computing the real
// check digit over a placeholder assembly. It fails only for a year
// outside 1980-2039; the result always satisfies IsValid.
func Generate(wmi, vds string, year int, plant, serial string) (string, error) {
	yc, err := YearCode(year)
	if err != nil {
		return "", err
	}
	wmi3 := sanitize(wmi, 3, 'A')
	vds5 := sanitize(vds, 5, 'A')
	plant1 := sanitize(plant, 1, 'A')
	serial6 := sanitize(serial, 6, '0')
	partial := wmi3 + vds5 + "X" + yc + plant1 + serial6
	check, err := CheckDigit(partial)
	if err != nil {
		return "", err
	}
	return partial[:8] + check + partial[9:], nil
}
