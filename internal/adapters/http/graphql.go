package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	bonusZoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BonusZone",
		Fields: graphql.Fields{
			"name":   &graphql.Field{Type: graphql.String},
			"points": &graphql.Field{Type: graphql.Int},
			"group":  &graphql.Field{Type: graphql.String},
			"error":  &graphql.Field{Type: graphql.String},
		},
	})

	coordInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CoordInfo",
		Fields: graphql.Fields{
			"lat":              &graphql.Field{Type: graphql.Float},
			"lon":              &graphql.Field{Type: graphql.Float},
			"in_playing_field": &graphql.Field{Type: graphql.Boolean},
			"bonus_zones":      &graphql.Field{Type: graphql.NewList(bonusZoneType)},
			"from_osm_road":    &graphql.Field{Type: graphql.Int, Description: "Meters to the nearest road"},
			"road_kml_error":   &graphql.Field{Type: graphql.String},
			"points": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.CoordInfo).Points(), nil
				},
			},
		},
	})

	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.Int},
			"kml_file":   &graphql.Field{Type: graphql.String},
			"name":       &graphql.Field{Type: graphql.String},
			"points":     &graphql.Field{Type: graphql.Int},
			"zone_group": &graphql.Field{Type: graphql.String},
			"enabled":    &graphql.Field{Type: graphql.Boolean},
			"updated_at": &graphql.Field{Type: graphql.DateTime},
		},
	})

	layerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Layer",
		Fields: graphql.Fields{
			"file":            &graphql.Field{Type: graphql.String},
			"name":            &graphql.Field{Type: graphql.String},
			"placemark_count": &graphql.Field{Type: graphql.Int},
			"placemarks":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"bounds":          &graphql.Field{Type: boundsType},
			"warnings":        &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	settingsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Settings",
		Fields: graphql.Fields{
			"playing_field_kml": &graphql.Field{Type: graphql.String},
			"osm_roads_kml":     &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"coordInfo": &graphql.Field{
				Type:        coordInfoType,
				Description: "Where a point lies relative to the playing field, bonus zones and roads",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					return deps.CoordInfo.Check(p.Context, lat, lon)
				},
			},
			"zones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "List all bonus zones",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Zones.List(p.Context)
				},
			},
			"layers": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "List the KML files",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Layers.List(p.Context)
				},
			},
			"layer": &graphql.Field{
				Type:        layerType,
				Description: "Inspect one KML file",
				Args: graphql.FieldConfigArgument{
					"file": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Layers.Inspect(p.Context, p.Args["file"].(string))
				},
			},
			"settings": &graphql.Field{
				Type: settingsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Layers.Settings(p.Context)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"setZone": &graphql.Field{
				Type:        graphql.String,
				Description: "Create, update or delete a zone. Returns created, updated, deleted or not_found.",
				Args: graphql.FieldConfigArgument{
					"kml_name":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"zone_name":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"points":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"zone_group": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"delete":     &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					change, err := deps.Zones.Set(p.Context, domain.ZoneUpdate{
						KMLFile: p.Args["kml_name"].(string),
						Name:    p.Args["zone_name"].(string),
						Points:  p.Args["points"].(int),
						Group:   p.Args["zone_group"].(string),
						Delete:  p.Args["delete"].(bool),
					})
					if err != nil {
						return nil, err
					}
					return change.String(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(result)
	}
}
