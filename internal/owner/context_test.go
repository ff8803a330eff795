package owner

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/tasklist/internal/token"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestGetUserID(t *testing.T) {
	alice := uuid.New()

	tests := []struct {
		name    string
		locals  interface{}
		want    uuid.UUID
		wantErr bool
	}{
		{name: "valid claims", locals: &jwt.Token{Claims: &token.Claims{UserID: alice.String()}}, want: alice},
		{name: "no token", locals: nil, wantErr: true},
		{name: "map claims", locals: &jwt.Token{Claims: jwt.MapClaims{"userId": alice.String()}}, wantErr: true},
		{name: "nil uuid", locals: &jwt.Token{Claims: &token.Claims{UserID: uuid.Nil.String()}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got uuid.UUID
			var gotErr error
			app.Get("/", func(c *fiber.Ctx) error {
				if tt.locals != nil {
					c.Locals("user", tt.locals)
				}
				got, gotErr = GetUserID(c)
				return c.SendStatus(fiber.StatusNoContent)
			})

			if _, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1); err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if (gotErr != nil) != tt.wantErr {
				t.Fatalf("GetUserID() error = %v, wantErr %v", gotErr, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("GetUserID() = %v, want %v", got, tt.want)
			}
		})
	}
}
