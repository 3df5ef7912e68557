package auth

import (
	"context"
	"crypto/subtle"
	"net/http"

	"envanter/internal/config"
)

type ctxKey struct{}

type account struct {
	login   string
	pass    string
	canEdit bool
}

// BasicAuth пропускает редактора и наблюдателя из конфига и кладёт в контекст
// право на изменение данных. Учётка с пустым логином отключена.
func BasicAuth(cfg config.Auth) func(http.Handler) http.Handler {
	accounts := make([]account, 0, 2)
	if cfg.EditorLogin != "" {
		accounts = append(accounts, account{login: cfg.EditorLogin, pass: cfg.EditorPass, canEdit: true})
	}
	if cfg.ViewerLogin != "" {
		accounts = append(accounts, account{login: cfg.ViewerLogin, pass: cfg.ViewerPass})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, pass, ok := r.BasicAuth()
			if !ok {
				requireAuth(w)
				return
			}

			acc, ok := match(accounts, login, pass)
			if !ok {
				requireAuth(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEditPermission(r.Context(), acc.canEdit)))
		})
	}
}

func match(accounts []account, login, pass string) (account, bool) {
	for _, acc := range accounts {
		loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(acc.login)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(acc.pass)) == 1
		if loginOK && passOK {
			return acc, true
		}
	}
	return account{}, false
}

// WithEditPermission используется middleware и тестами обработчиков.
func WithEditPermission(ctx context.Context, canEdit bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, canEdit)
}

// CanEdit — false, если запрос не прошёл через BasicAuth.
func CanEdit(ctx context.Context) bool {
	canEdit, _ := ctx.Value(ctxKey{}).(bool)
	return canEdit
}

func requireAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Envanter"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}
