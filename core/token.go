package core

import "github.com/gin-gonic/gin"

// TokenCarrier is implemented by inputs of token gated routes.
type TokenCarrier interface {
	// SecurityToken returns the presented token and whether the field was sent
	// at all. An empty but present token is a failed verification, not a
	// missing one.
	SecurityToken() (string, bool)
}

// TokenField is the body field the security token is posted in.
const TokenField = "security_token"

// TokenInput is embedded in route inputs to carry the security token field.
// Only a posted form field or a JSON body fills it, a token in the query
// string or a header is treated as missing.
type TokenInput struct {
	Token *string `form:"-" header:"-" json:"security_token"`
}

type postedToken interface {
	setPostedToken(value string)
}

func (t *TokenInput) setPostedToken(value string) {
	t.Token = &value
}

// bindPostedToken copies the posted security_token form field into input.
// ctx.GetPostForm reads the request body only, never the URL.
func bindPostedToken(ctx *gin.Context, input interface{}) {
	target, ok := input.(postedToken)
	if !ok {
		return
	}
	if value, present := ctx.GetPostForm(TokenField); present {
		target.setPostedToken(value)
	}
}

func (t TokenInput) SecurityToken() (string, bool) {
	if t.Token == nil {
		return "", false
	}
	return *t.Token, true
}

const (
	MessageTokenMissing = "Security token missing. Please refresh the page and try again."
	MessageTokenInvalid = "Security verification failed. Please refresh the page and try again."
)
