package hotels

import (
	"errors"
	"sort"
	"strings"

	"hotel_finder/internal/adapters/rapidapi"
	"hotel_finder/internal/domain"
)

func mapRegion(m map[string]any) (domain.Region, bool) {
	id := rapidapi.String(m, "gaiaId", "essId.sourceId")
	kind, ok := domain.ParseLocationKind(rapidapi.String(m, "type"))
	if id == "" || !ok {
		return domain.Region{}, false
	}
	lat, _ := rapidapi.Float(m, "coordinates.lat")
	lon, _ := rapidapi.Float(m, "coordinates.long")
	return domain.Region{
		ID:     domain.RegionID(id),
		Name:   rapidapi.String(m, "regionNames.primaryDisplayName", "regionNames.shortName", "regionNames.fullName"),
		Kind:   kind,
		Coords: domain.Coordinates{Lat: lat, Lon: lon},
	}, true
}

// mapProperty fails when a field needed for ranking or filtering is missing.
func mapProperty(m map[string]any) (domain.Property, error) {
	id := rapidapi.String(m, "id")
	if id == "" {
		return domain.Property{}, errors.New("missing id")
	}
	name := rapidapi.String(m, "name")
	if name == "" {
		return domain.Property{}, errors.New("missing name")
	}
	amount, ok := rapidapi.Float(m, "price.lead.amount")
	if !ok {
		return domain.Property{}, errors.New("missing lead price")
	}
	dist, ok := rapidapi.Float(m, "destinationInfo.distanceFromDestination.value")
	if !ok {
		return domain.Property{}, errors.New("missing distance")
	}
	unit := domain.DistanceUnit(strings.ToUpper(rapidapi.String(m, "destinationInfo.distanceFromDestination.unit")))
	switch unit {
	case domain.UnitMile, domain.UnitKilometer:
	default:
		return domain.Property{}, errors.New("unknown distance unit " + string(unit))
	}
	currency := rapidapi.String(m, "price.lead.currencyInfo.code")
	if currency == "" {
		currency = "USD"
	}
	lat, _ := rapidapi.Float(m, "mapMarker.latLong.latitude")
	lon, _ := rapidapi.Float(m, "mapMarker.latLong.longitude")

	return domain.Property{
		ID:       domain.PropertyID(id),
		Name:     name,
		Price:    domain.Price{Amount: amount, Currency: currency},
		Distance: domain.Distance{Value: dist, Unit: unit},
		Coords:   domain.Coordinates{Lat: lat, Lon: lon},
	}, nil
}

func mapDetails(m map[string]any) domain.PropertyDetails {
	return domain.PropertyDetails{
		Address: rapidapi.String(m,
			"data.propertyInfo.summary.location.address.addressLine",
			"data.propertyInfo.summary.location.address.firstAddressLine"),
		Images: rapidapi.Strings(m, "data.propertyInfo.propertyGallery.images", "image.url"),
	}
}

// mapCountries reads {"US": {"siteId": .., "TPID": .., "EAPID": ..}, ...}.
func mapCountries(m map[string]any) []domain.CountryInfo {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]domain.CountryInfo, 0, len(codes))
	for _, code := range codes {
		info, ok := m[code].(map[string]any)
		if !ok || len(code) != 2 {
			continue
		}
		site, ok := rapidapi.Int64(info, "siteId")
		if !ok {
			continue
		}
		tpid, _ := rapidapi.Int64(info, "TPID")
		ci := domain.CountryInfo{Code: code, SiteID: site, TPID: tpid}
		if e, ok := rapidapi.Int64(info, "EAPID"); ok {
			ci.EAPID = &e
		}
		out = append(out, ci)
	}
	return out
}
