package models

// TokenKind identifies a lexical unit of JSON text.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenObjectStart
	TokenObjectEnd
	TokenArrayStart
	TokenArrayEnd
	TokenColon
	TokenComma
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenObjectStart:
		return "'{'"
	case TokenObjectEnd:
		return "'}'"
	case TokenArrayStart:
		return "'['"
	case TokenArrayEnd:
		return "']'"
	case TokenColon:
		return "':'"
	case TokenComma:
		return "','"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenTrue:
		return "'true'"
	case TokenFalse:
		return "'false'"
	case TokenNull:
		return "'null'"
	}
	return "unknown token"
}

// Token is a lexical unit with its source span. Text is the raw source slice,
// including the quotes of a string token.
type Token struct {
	Kind  TokenKind
	Start Position
	End   Position
	Text  string
}
