package vin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knownVIN = "1HGCM82633A004352"

func TestNormalize(t *testing.T) {
	assert.Equal(t, knownVIN, Normalize(" 1hgcm82633a004352 "))
	assert.Equal(t, "ABC", Normalize("a b c"))
	assert.Equal(t, "", Normalize("   "))
}

func TestCheckDigitKnown(t *testing.T) {
	cd, err := CheckDigit(knownVIN)
	require.NoError(t, err)
	assert.Equal(t, knownVIN[8:9], cd)
}

func TestCheckDigitErrors(t *testing.T) {
	_, err := CheckDigit("1HGCM82633I004352") // illegal letter I
	assert.Error(t, err)
	_, err = CheckDigit("SHORT")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		vin   string
		valid bool
	}{
		{knownVIN, true},
		{"1hgcm82633a004352", true},   // lowercased ok after normalization
		{"1HGCM82633A004353", false},  // wrong check digit
		{"1HGCM82633A00435", false},   // too short
		{"1HGCM82633A0043520", false}, // too long
		{"1HGCM82633I004352", false},  // illegal letter I
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.vin, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValid(tt.vin))
		})
	}
}

func TestYearCodeRoundtrip(t *testing.T) {
	// Year codes repeat every 30 years; the decoded canonical year must
	// land in the same cycle.
	for year := 1980; year <= 2039; year++ {
		code, err := YearCode(year)
		require.NoError(t, err, "year %d", year)
		back := ModelYear(code)
		assert.Contains(t, []int{year, year - 30, year + 30}, back, "year %d code %s", year, code)
		assert.Contains(t, YearCandidates(code), year, "year %d code %s", year, code)
	}
}

func TestYearCodeUnsupported(t *testing.T) {
	for _, year := range []int{1979, 2040, 0, -5} {
		_, err := YearCode(year)
		assert.ErrorIs(t, err, ErrUnsupportedYear, "year %d", year)
	}
}

func TestModelYear(t *testing.T) {
	assert.Equal(t, 2005, ModelYear("5"))
	assert.Equal(t, 2010, ModelYear("A"))
	assert.Equal(t, 2010, ModelYear("a"))
	assert.Equal(t, 2030, ModelYear("Y"))
	assert.Equal(t, 0, ModelYear("0")) // 0 is not a year digit
	assert.Equal(t, 0, ModelYear("U")) // U is skipped in the letter cycle
	assert.Equal(t, 0, ModelYear(""))
	assert.Equal(t, 0, ModelYear("AB"))
}

func TestYearCandidates(t *testing.T) {
	assert.Equal(t, []int{2005, 2035}, YearCandidates("5"))
	assert.Equal(t, []int{1980, 2010}, YearCandidates("A"))
	assert.Equal(t, []int{2000, 2030}, YearCandidates("Y"))
	assert.Nil(t, YearCandidates("U"))
	assert.Nil(t, YearCandidates("0"))
}

func TestGenerateKnown(t *testing.T) {
	v, err := Generate("1HG", "CM826", 2003, "A", "004352")
	require.NoError(t, err)
	assert.Equal(t, knownVIN, v)
}

func TestGenerateAlwaysValid(t *testing.T) {
	tests := []struct {
		name          string
		wmi, vds      string
		year          int
		plant, serial string
	}{
		{"plain", "WVW", "ZZZ3B", 2015, "E", "123456"},
		{"legacy year", "JHM", "CB765", 1987, "C", "000001"},
		{"future digit year", "1FA", "6P0H7", 2035, "K", "987654"},
		{"dirty components", "1h?", "cm-82", 2003, "", "43 52"},
		{"short components", "Z", "F", 2020, "A", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Generate(tt.wmi, tt.vds, tt.year, tt.plant, tt.serial)
			require.NoError(t, err)
			assert.Len(t, v, 17)
			assert.True(t, IsValid(v), "generated VIN %q must validate", v)
		})
	}
}

func TestGenerateUnsupportedYear(t *testing.T) {
	_, err := Generate("1HG", "CM826", 1950, "A", "004352")
	assert.ErrorIs(t, err, ErrUnsupportedYear)
}

func TestGenerateDecodeYearRoundtrip(t *testing.T) {
	for year := 1980; year <= 2039; year++ {
		v, err := Generate("1HG", "CM826", year, "A", "004352")
		require.NoError(t, err)
		d := Decode(v)
		require.True(t, d.Valid)
		if year >= 2001 && year <= 2030 {
			// single-valued (canonical) part of the cycle
			assert.Equal(t, year, d.ModelYear, "year %d", year)
		} else {
			assert.Contains(t, d.ModelYearCandidates, year, "year %d", year)
		}
	}
}

func TestDecodeKnown(t *testing.T) {
	d := Decode(knownVIN)
	assert.True(t, d.Valid)
	assert.Equal(t, "1HG", d.WMI)
	assert.Equal(t, "CM826", d.VDS)
	assert.Equal(t, "3A004352", d.VIS)
	assert.Equal(t, "3", d.CheckDigit)
	require.NotNil(t, d.CheckDigitValid)
	assert.True(t, *d.CheckDigitValid)
	assert.Equal(t, "3", d.ModelYearCode)
	assert.Equal(t, 2003, d.ModelYear)
	assert.Equal(t, []int{2003, 2033}, d.ModelYearCandidates)
	assert.Equal(t, "A", d.PlantCode)
	assert.Equal(t, "004352", d.SerialNumber)
	assert.Equal(t, "North America", d.Region)
	assert.Equal(t, "Honda USA", d.Brand)
	assert.Nil(t, d.Notes)
}

func TestDecodeMalformedNeverFails(t *testing.T) {
	d := Decode("TOOSHORT")
	assert.False(t, d.Valid)
	assert.Nil(t, d.CheckDigitValid)
	assert.Equal(t, "TOO", d.WMI)
	assert.Equal(t, "SHORT", d.VDS)
	assert.Equal(t, "", d.CheckDigit)
	assert.Equal(t, "", d.ModelYearCode)
	assert.Equal(t, 0, d.ModelYear)
	assert.Empty(t, d.SerialNumber)

	empty := Decode("")
	assert.False(t, empty.Valid)
	assert.Equal(t, "", empty.WMI)
	assert.Equal(t, "", empty.Region)
}

func TestDecodeWrongCheckDigit(t *testing.T) {
	d := Decode("1HGCM82634A004352") // year code flipped, stale check digit
	assert.True(t, d.Valid)          // format is fine
	require.NotNil(t, d.CheckDigitValid)
	assert.False(t, *d.CheckDigitValid)
}

func TestDecodeRegionAndBrand(t *testing.T) {
	d := Decode("WVWZZZ3BZWE689725")
	assert.Equal(t, "Europe (Germany)", d.Region)
	assert.Equal(t, "Volkswagen Germany", d.Brand)
}

func TestDecodeFiatYearNote(t *testing.T) {
	// Position 10 code "0" is not a valid year code, which triggers
	// the EU Fiat decode caveat.
	d := Decode("ZFA00000000000000")
	assert.Equal(t, "Fiat Italy", d.Brand)
	assert.Equal(t, 0, d.ModelYear)
	require.Len(t, d.Notes, 1)
	assert.Contains(t, d.Notes[0], "Model year not encoded")
}
