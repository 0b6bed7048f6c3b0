// Example application demonstrating the corvid routing core.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/corvidhttp/corvid"
	"github.com/corvidhttp/corvid/adapter"
	"github.com/corvidhttp/corvid/jwt"
	"github.com/corvidhttp/corvid/middleware"
)

func decodeBody(c *corvid.Context, v interface{}) error {
	defer c.Raw.Body.Close()
	return json.NewDecoder(c.Raw.Body).Decode(v)
}

// User is the demo resource validated on create/update.
type User struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required,min:2,max:50"`
	Email    string `json:"email" validate:"required,email"`
	Age      int    `json:"age" validate:"min:0,max:150"`
	Username string `json:"username" validate:"required,alphanum,min:3,max:20"`
}

var users = []User{
	{ID: 1, Name: "John Doe", Email: "john@example.com", Age: 30, Username: "johndoe"},
	{ID: 2, Name: "Jane Smith", Email: "jane@example.com", Age: 25, Username: "janesmith"},
}
var nextID int64 = 3

var jwtSecret = []byte("replace-in-production")

func main() {
	logger := corvid.NewSlogLogger(nil)

	router := corvid.New(
		corvid.WithLogger(logger),
		corvid.WithContinueAfterResponse(false),
	)

	root := router.Group("").Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.CORS(middleware.DefaultCORSConfig),
		middleware.Tracing(middleware.TracingConfig{TracerName: "corvid/example"}),
		middleware.Metrics(middleware.MetricsConfig{Namespace: "corvid_example"}),
	)

	root.GET("/health", healthHandler)
	root.POST("/auth/login", loginHandler)

	jwtHandler := jwt.NewWithSecret(jwtSecret)
	api := root.Group("/api/v1").Use(middleware.JWT(jwtHandler))

	api.GET("/users", listUsers)
	api.POST("/users", createUser)
	api.GET("/users/:id", getUser)
	api.PUT("/users/:id", updateUser)
	api.DELETE("/users/:id", deleteUser)

	// Struct-based discovery: StatusResource declares its own routes via
	// ResourceMeta/RouteAttrs instead of fluent registration.
	router.RegisterType((*StatusResource)(nil))

	bridge := adapter.New(router, "X-Request-Id")
	cfg := adapter.DefaultServerConfig(":8080")
	cfg.Logger = logger

	log.Println("starting server on :8080")
	if err := adapter.ServeWithGracefulShutdown(bridge, cfg); err != nil {
		log.Fatal(err)
	}
}

func healthHandler(c *corvid.Context) error {
	return c.JSON(http.StatusOK, corvid.M{"status": "ok"})
}

func loginHandler(c *corvid.Context) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(c, &input); err != nil {
		return c.Error(http.StatusBadRequest, "invalid request body")
	}

	if input.Username != "demo" || input.Password != "password" {
		return c.Error(http.StatusUnauthorized, "invalid credentials")
	}

	handler := jwt.NewWithSecret(jwtSecret)
	claims := jwt.NewClaims(input.Username, 24*time.Hour).
		WithCustom("user_id", 1).
		WithCustom("roles", []string{"user", "admin"})

	token, err := handler.Generate(claims)
	if err != nil {
		return c.Error(http.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(http.StatusOK, corvid.M{
		"token":      token,
		"expires_in": int((24 * time.Hour).Seconds()),
	})
}

func listUsers(c *corvid.Context) error {
	return c.JSON(http.StatusOK, users)
}

func createUser(c *corvid.Context) error {
	var input User
	if err := c.Bind(&input); err != nil {
		if errs, ok := corvid.AsValidationErrors(err); ok {
			return c.ValidationFailed(errs)
		}
		return c.Error(http.StatusBadRequest, "invalid request body")
	}

	input.ID = nextID
	nextID++
	users = append(users, input)
	return c.JSON(http.StatusCreated, input)
}

func getUser(c *corvid.Context) error {
	id, err := c.ParamInt("id")
	if err != nil {
		return c.Error(http.StatusBadRequest, "invalid user id")
	}
	for _, u := range users {
		if u.ID == id {
			return c.JSON(http.StatusOK, u)
		}
	}
	return c.Error(http.StatusNotFound, "user not found")
}

func updateUser(c *corvid.Context) error {
	id, err := c.ParamInt("id")
	if err != nil {
		return c.Error(http.StatusBadRequest, "invalid user id")
	}

	var input User
	if err := c.Bind(&input); err != nil {
		if errs, ok := corvid.AsValidationErrors(err); ok {
			return c.ValidationFailed(errs)
		}
		return c.Error(http.StatusBadRequest, "invalid request body")
	}

	for i, u := range users {
		if u.ID == id {
			input.ID = id
			users[i] = input
			return c.JSON(http.StatusOK, input)
		}
	}
	return c.Error(http.StatusNotFound, "user not found")
}

func deleteUser(c *corvid.Context) error {
	id, err := c.ParamInt("id")
	if err != nil {
		return c.Error(http.StatusBadRequest, "invalid user id")
	}
	for i, u := range users {
		if u.ID == id {
			users = append(users[:i], users[i+1:]...)
			return c.NoContent()
		}
	}
	return c.Error(http.StatusNotFound, "user not found")
}

// StatusResource demonstrates struct-based route discovery
// (RegisterType) alongside the fluent routes registered above.
type StatusResource struct{}

func (StatusResource) ResourceMeta() corvid.ResourceMeta {
	return corvid.ResourceMeta{BasePath: "/status"}
}

func (StatusResource) RouteAttrs() []corvid.RouteAttr {
	return []corvid.RouteAttr{
		{Method: corvid.MethodGet, PathInfo: "", Handler: "Get"},
	}
}

func (StatusResource) Get(c *corvid.Context) error {
	return c.JSON(http.StatusOK, corvid.M{"uptime": "ok"})
}
