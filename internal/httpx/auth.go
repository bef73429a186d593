package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

const HeaderOwnerSecret = "X-Owner-Secret"

// OwnerHash returns the bcrypt hash used to gate owner routes. A configured
// hash wins over a plain password.
func OwnerHash(hash, password string) ([]byte, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return []byte(hash), nil
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// RequireOwner rejects requests whose X-Owner-Secret does not match hash.
func RequireOwner(hash []byte, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secret := r.Header.Get(HeaderOwnerSecret)
			if secret == "" || bcrypt.CompareHashAndPassword(hash, []byte(secret)) != nil {
				writeError(r.Context(), log, w, errs.New(errs.CodeUnauthorized, "owner secret missing or wrong"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
