// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package geo

import (
	"math"
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

type GeoSuite struct {
	n *Normalizer
}

var _ = Suite(&GeoSuite{})

func (s *GeoSuite) SetUpSuite(c *C) {
	s.n = NewNormalizer()
	c.Assert(s.n, NotNil)
	c.Assert(len(s.n.englishByKey), Not(Equals), 0)
	c.Assert(len(s.n.codeByKey), Not(Equals), 0)
}

func (s *GeoSuite) TestLookupKey(c *C) {
	c.Assert(LookupKey("Côte d’Ivoire"), Equals, "cote d ivoire")
	c.Assert(LookupKey("  Bosnia & Herzegovina "), Equals, "bosnia and herzegovina")
	c.Assert(LookupKey("U.S.A."), Equals, "u s a")
	c.Assert(LookupKey(""), Equals, "")
}

func (s *GeoSuite) TestAliasesCollapseToOneName(c *C) {
	for _, v := range []string{"USA", "U.S.A.", "united states of america", "United States", "  united   states "} {
		c.Assert(s.n.CountryName(v), Equals, "United States", Commentf("input %q", v))
	}
	c.Assert(s.n.CountryName("UK"), Equals, "United Kingdom")
	c.Assert(s.n.CountryName("uae"), Equals, "United Arab Emirates")
}

func (s *GeoSuite) TestCaseAndDiacriticsAreIgnored(c *C) {
	c.Assert(s.n.CountryName("GERMANY"), Equals, "Germany")
	c.Assert(s.n.CountryName("germany"), Equals, "Germany")
	c.Assert(s.n.CountryName("España"), Equals, s.n.CountryName("Espana"))
}

func (s *GeoSuite) TestLocalizedNamesResolveToEnglish(c *C) {
	c.Assert(s.n.CountryName("Deutschland"), Equals, "Germany")
	c.Assert(s.n.CountryName("España"), Equals, "Spain")
	c.Assert(s.n.CountryName("Frankreich"), Equals, "France")
}

func (s *GeoSuite) TestCanonicalNamesAreIdempotent(c *C) {
	for _, v := range []string{"Germany", "France", "United Kingdom", "Japan", "United States", "Atlantis"} {
		once := s.n.CountryName(v)
		c.Assert(s.n.CountryName(once), Equals, once)
	}
}

func (s *GeoSuite) TestUnknownInputs(c *C) {
	for _, v := range []string{"", "   ", "Unknown location", "unknown COUNTRY"} {
		c.Assert(s.n.CountryName(v), Equals, UnknownCountry)
	}
	c.Assert(s.n.CodeFromName(""), Equals, "")
	c.Assert(s.n.CountryName("Atlantis"), Equals, "Atlantis")
	c.Assert(s.n.CodeFromName("Atlantis"), Equals, "")
}

func (s *GeoSuite) TestCodeFromName(c *C) {
	c.Assert(s.n.CodeFromName("Germany"), Equals, "DE")
	c.Assert(s.n.CodeFromName("uk"), Equals, "GB")
	c.Assert(s.n.CodeFromName("Ivory Coast"), Equals, "CI")
	c.Assert(s.n.CodeFromName("Kosovo"), Equals, "XK")
	c.Assert(s.n.CodeFromName("Vatican City"), Equals, "VA")
	c.Assert(s.n.CodeFromName("Deutschland"), Equals, "DE")
}

func (s *GeoSuite) TestCodeFromNameIgnoresDeprecatedRegions(c *C) {
	c.Assert(s.n.CodeFromName("France"), Equals, "FR")
	c.Assert(s.n.CodeFromName("Congo - Kinshasa"), Equals, "CD")
	c.Assert(s.n.CodeFromName("U.S. Outlying Islands"), Equals, "UM")

	for _, tc := range []struct{ name, code string }{
		{"France", "FR"},
		{"Congo - Kinshasa", "CD"},
		{"U.S. Outlying Islands", "UM"},
	} {
		byName := s.n.CountryGroupKey(tc.name, s.n.CodeFromName(tc.name))
		c.Assert(byName, Equals, s.n.CountryGroupKey(tc.name, tc.code), Commentf("country %q", tc.name))
	}
}

func (s *GeoSuite) TestNormalizeCountryCode(c *C) {
	c.Assert(NormalizeCountryCode(" uk "), Equals, "GB")
	c.Assert(NormalizeCountryCode("fr"), Equals, "FR")
	c.Assert(NormalizeCountryCode(""), Equals, "")
	c.Assert(ValidCountryCode("gb"), Equals, true)
	c.Assert(ValidCountryCode("GBR"), Equals, false)
}

func (s *GeoSuite) TestCountryGroupKey(c *C) {
	c.Assert(s.n.CountryGroupKey("United Kingdom", "gb"), Equals, "cc:GB")
	c.Assert(s.n.CountryGroupKey("Whatever", "UK"), Equals, "cc:GB")
	c.Assert(s.n.CountryGroupKey("Atlantis", ""), Equals, "nm:atlantis")
	c.Assert(s.n.CountryGroupKey("USA", "USA"), Equals, "nm:united states")
	c.Assert(s.n.CountryGroupKey("", ""), Equals, "nm:unknown country")
}

func (s *GeoSuite) TestFlagEmoji(c *C) {
	c.Assert(FlagEmoji("gb"), Equals, "\U0001F1EC\U0001F1E7")
	c.Assert(FlagEmoji("UK"), Equals, "\U0001F1EC\U0001F1E7")
	c.Assert(FlagEmoji(""), Equals, GlobeEmoji)
	c.Assert(FlagEmoji("123"), Equals, GlobeEmoji)
}

func (s *GeoSuite) TestNormalizeConstituency(c *C) {
	c.Assert(NormalizeConstituency("  Greater   London ", "United Kingdom"), Equals, "Greater London")
	c.Assert(NormalizeConstituency("N/A", "France"), Equals, "")
	c.Assert(NormalizeConstituency("unknown", "France"), Equals, "")
	c.Assert(NormalizeConstituency("Monaco", "Monaco"), Equals, "")
	c.Assert(NormalizeConstituency("MONACO", "Monaco"), Equals, "")
	c.Assert(NormalizeConstituency("", "Monaco"), Equals, "")
}

func (s *GeoSuite) TestConstituencyGroupKey(c *C) {
	c.Assert(ConstituencyGroupKey("cc:GB", " Greater  London"), Equals, "cc:GB|greater london")
	c.Assert(ConstituencyGroupKey("cc:GB", ""), Equals, "")
}

func (s *GeoSuite) TestParseCountryFromLabel(c *C) {
	c.Assert(ParseCountryFromLabel("London, United Kingdom"), Equals, "United Kingdom")
	c.Assert(ParseCountryFromLabel("a, b, , "), Equals, "b")
	c.Assert(ParseCountryFromLabel("France"), Equals, "France")
	c.Assert(ParseCountryFromLabel("Unknown location"), Equals, UnknownCountry)
	c.Assert(ParseCountryFromLabel(" "), Equals, UnknownCountry)
}

func (s *GeoSuite) TestFormatLabel(c *C) {
	c.Assert(FormatLabel("Paris", "France"), Equals, "Paris, France")
	c.Assert(FormatLabel("", "France"), Equals, "France")
	c.Assert(FormatLabel("Paris", ""), Equals, "Paris")
	c.Assert(FormatLabel("", ""), Equals, UnknownLocation)
}

func (s *GeoSuite) TestPlaceNormalization(c *C) {
	p := s.n.PlaceFromLabel("Paris, France")
	c.Assert(p.Label, Equals, "Paris, France")
	c.Assert(p.Country, Equals, "France")
	c.Assert(p.CountryCode, Equals, "FR")
	c.Assert(p.Known(), Equals, true)
	c.Assert(p.HasConstituency(), Equals, false)

	p = s.n.Place(Place{Country: "Deutschland", Constituency: "Bayern"})
	c.Assert(p.Label, Equals, UnknownLocation)
	c.Assert(p.Country, Equals, "Germany")
	c.Assert(p.CountryCode, Equals, "DE")
	c.Assert(p.Constituency, Equals, "Bayern")
	c.Assert(p.Level, Equals, LevelUnspecified)
	c.Assert(p.Complete(), Equals, true)

	p = s.n.Place(Place{})
	c.Assert(p, DeepEquals, UnknownPlace())
	c.Assert(p.Known(), Equals, false)

	p = s.n.Place(Place{Country: "Unknown country", CountryCode: "GB", Constituency: "Kent", Level: LevelCounty})
	c.Assert(p.CountryCode, Equals, "")
	c.Assert(p.Constituency, Equals, "Kent")
	c.Assert(p.Level, Equals, LevelCounty)
}

func (s *GeoSuite) TestPointValidity(c *C) {
	c.Assert(Point{Lat: 0, Lon: 0}.Valid(), Equals, false)
	c.Assert(Point{Lat: math.NaN(), Lon: 1}.Valid(), Equals, false)
	c.Assert(Point{Lat: 1, Lon: math.Inf(1)}.Valid(), Equals, false)
	c.Assert(Point{Lat: 0, Lon: 0.5}.Valid(), Equals, true)
	c.Assert(Point{Lat: 51.5, Lon: -0.1}.Key(), Equals, "51.50,-0.10")
}

func (s *GeoSuite) TestCoordinateKeys(c *C) {
	c.Assert(CoordinateKey(51.5074, -0.1278), Equals, "51.51,-0.13")
	c.Assert(ResolutionKey(51.5074, -0.1278), Equals, "51.51, -0.13")
	c.Assert(ValidCoordinateKey("51.50,-0.10"), Equals, true)
	c.Assert(ValidCoordinateKey("-1.00,100.25"), Equals, true)
	c.Assert(ValidCoordinateKey("51.5,-0.1"), Equals, false)
	c.Assert(ValidCoordinateKey("51.50, -0.10"), Equals, false)
	c.Assert(ValidCoordinateKey("London"), Equals, false)
}

func (s *GeoSuite) TestDistanceSquared(c *C) {
	c.Assert(DistanceSquared(0, 0, 3, 4), Equals, 25.0)
	c.Assert(DistanceSquared(1, 1, 1, 1), Equals, 0.0)
}
