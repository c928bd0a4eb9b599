package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// zoneResult is the body returned after a zone change.
type zoneResult struct {
	Success bool   `json:"success"`
	Change  string `json:"change"`
	Message string `json:"message"`
}

// zoneBody is the PUT /v1/zones/:kml payload.
type zoneBody struct {
	Name    string `json:"zone_name"`
	Points  int    `json:"points"`
	Group   string `json:"zone_group"`
	Enabled *bool  `json:"enabled"`
}

// settingBody is the PUT /v1/settings/:key payload.
type settingBody struct {
	File string `json:"file"`
}

// parseCoord reads a required float query parameter.
func parseCoord(c *fiber.Ctx, name string) (float64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CoordInfoHandler answers where a point lies: playing field, bonus zones
// and distance to the nearest road.
func CoordInfoHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, okLat := parseCoord(c, "lat")
		lon, okLon := parseCoord(c, "lon")
		if !okLat || !okLon {
			return errBadRequest(c, domain.ErrInvalidCoordinates.Error())
		}

		info, err := deps.CoordInfo.Check(c.UserContext(), lat, lon)
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(info)
	}
}

// ListZonesHandler returns every registered bonus zone.
func ListZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones, err := deps.Zones.List(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(zones)
	}
}

// PutZoneHandler creates or updates the zone backed by :kml.
func PutZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body zoneBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		return applyZone(c, deps, domain.ZoneUpdate{
			KMLFile: c.Params("kml"),
			Name:    body.Name,
			Points:  body.Points,
			Group:   body.Group,
			Enabled: body.Enabled,
		})
	}
}

// DeleteZoneHandler removes the zone backed by :kml.
func DeleteZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return applyZone(c, deps, domain.ZoneUpdate{KMLFile: c.Params("kml"), Delete: true})
	}
}

// PostZoneHandler accepts the legacy form: kml_name, zone_name, points and
// an optional delete flag in one body.
func PostZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var u domain.ZoneUpdate
		if err := c.BodyParser(&u); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(u.KMLFile) == "" {
			return errBadRequest(c, "kml_name is required")
		}
		return applyZone(c, deps, u)
	}
}

func applyZone(c *fiber.Ctx, deps *Dependencies, u domain.ZoneUpdate) error {
	change, err := deps.Zones.Set(c.UserContext(), u)
	if err != nil {
		return errFromDomain(c, err)
	}
	if change == domain.ZoneNotFound {
		return errNotFound(c, change.Message())
	}

	status := fiber.StatusOK
	if change == domain.ZoneCreated {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(zoneResult{Success: true, Change: change.String(), Message: change.Message()})
}

// ListLayersHandler lists the KML files available to zones and settings.
func ListLayersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		files, err := deps.Layers.List(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		if files == nil {
			files = []string{}
		}
		return c.JSON(files)
	}
}

// GetLayerHandler loads one KML file and summarises it.
func GetLayerHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		layer, err := deps.Layers.Inspect(c.UserContext(), c.Params("file"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(layer)
	}
}

// GetSettingsHandler returns the playing field and road layers.
func GetSettingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings, err := deps.Layers.Settings(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(settings)
	}
}

// PutSettingHandler points a setting at a KML file.
func PutSettingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body settingBody
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		key := c.Params("key")
		if err := deps.Layers.SetSetting(c.UserContext(), key, strings.TrimSpace(body.File)); err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "key": key, "file": strings.TrimSpace(body.File)})
	}
}
