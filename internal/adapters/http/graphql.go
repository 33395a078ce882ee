package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geodash/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	projectType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Project",
		Fields: graphql.Fields{
			"id":                       &graphql.Field{Type: graphql.Int},
			"name":                     &graphql.Field{Type: graphql.String},
			"description":              &graphql.Field{Type: graphql.String},
			"latitude":                 &graphql.Field{Type: graphql.Float},
			"longitude":                &graphql.Field{Type: graphql.Float},
			"budget_allocated":         &graphql.Field{Type: graphql.Float},
			"budget_spent":             &graphql.Field{Type: graphql.Float},
			"start_date":               &graphql.Field{Type: graphql.String},
			"expected_completion_date": &graphql.Field{Type: graphql.String},
			"status":                   &graphql.Field{Type: graphql.String},
			"funding_source":           &graphql.Field{Type: graphql.String},
			"over_budget": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if pr, ok := p.Source.(domain.Project); ok {
						return pr.OverBudget(), nil
					}
					return nil, nil
				},
			},
		},
	})

	nearbyType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyProject",
		Fields: graphql.Fields{
			"project": &graphql.Field{
				Type: projectType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.NearbyProject).Project, nil
				},
			},
			"distance_m": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.NearbyProject).DistanceMeters, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"projects": &graphql.Field{
				Type:        graphql.NewList(projectType),
				Description: "List all projects",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Projects.List(p.Context)
				},
			},
			"project": &graphql.Field{
				Type:        projectType,
				Description: "Get a project by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(int)
					pr, err := deps.Projects.GetByID(p.Context, int64(id))
					if err != nil {
						return nil, err
					}
					return *pr, nil
				},
			},
			"projectsNearby": &graphql.Field{
				Type:        graphql.NewList(nearbyType),
				Description: "Find projects near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1000.0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					radius := p.Args["radius"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Projects.Nearby(p.Context, center, radius, limit)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
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
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
