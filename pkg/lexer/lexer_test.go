package lexer_test

import (
	"errors"
	"rvasm/pkg/lexer"
	"testing"
)

func TestTokens(t *testing.T) {
	input := "main:  addi sp, sp, -16\n" + "\tsw ra, 12(sp)\n" + "loop: BEQ a0, x0, done\n" + ".data\n" + "msg: .string \"hi\"\n"
	mylexer := lexer.NewLexer(input)

	expectedTokens := []lexer.TokenType{
		lexer.LABEL, lexer.MNEMONIC, lexer.REGISTER, lexer.COMMA, lexer.REGISTER, lexer.COMMA, lexer.NUM, lexer.EOL,
		lexer.MNEMONIC, lexer.REGISTER, lexer.COMMA, lexer.NUM, lexer.LPAREN, lexer.REGISTER, lexer.RPAREN, lexer.EOL,
		lexer.LABEL, lexer.MNEMONIC, lexer.REGISTER, lexer.COMMA, lexer.REGISTER, lexer.COMMA, lexer.ID, lexer.EOL,
		lexer.DIRECTIVE, lexer.EOL,
		lexer.LABEL, lexer.DIRECTIVE, lexer.STRING, lexer.EOL,
		lexer.EOF,
	}

	for i, expected := range expectedTokens {
		token, err := mylexer.NextToken()
		if err != nil {
			t.Fatalf("Token %d: unexpected error %v", i, err)
		}
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, token.Type)
		}
	}
}

func TestComments(t *testing.T) {
	input := `# test comment
addi x1, x0, 1 ; another test comment
; another another test comment
ret # trailing`

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	expectedTokens := []lexer.TokenType{
		lexer.EOL,
		lexer.MNEMONIC, lexer.REGISTER, lexer.COMMA, lexer.REGISTER, lexer.COMMA, lexer.NUM, lexer.EOL,
		lexer.EOL,
		lexer.MNEMONIC,
		lexer.EOF,
	}

	if len(tokens) != len(expectedTokens) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(expectedTokens), tokens)
	}
	for i, expected := range expectedTokens {
		if tokens[i].Type != expected {
			t.Errorf("Token %d: expected %s, got %s", i, expected, tokens[i].Type)
		}
	}
	if tokens[9].Pos.Line != 4 {
		t.Errorf("ret should be on line 4, got %d", tokens[9].Pos.Line)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input       string
		expected    int64
		description string
	}{
		{"42", 42, "integer"},
		{"0", 0, "zero"},
		{"-16", -16, "negative"},
		{"2047", 2047, "max imm12"},
		{"-2048", -2048, "min imm12"},
		{"0x4000", 0x4000, "hex"},
		{"0XFF", 0xFF, "upper hex prefix"},
		{"-0x10", -16, "negative hex"},
		{"0b1010", 10, "binary"},
		{"0o17", 15, "octal"},
		{"1_000", 1000, "underscore separator"},
	}

	for _, test := range tests {
		tokens, err := lexer.Tokenize(test.input)
		if err != nil {
			t.Errorf("Input %s (%s): unexpected error %v", test.input, test.description, err)
			continue
		}
		if tokens[0].Type != lexer.NUM {
			t.Errorf("Input %s (%s): expected num, got %s", test.input, test.description, tokens[0].Type)
			continue
		}
		if tokens[0].Value != test.expected {
			t.Errorf("Input %s (%s): expected %d, got %d", test.input, test.description, test.expected, tokens[0].Value)
		}
		if tokens[0].Lexeme != test.input {
			t.Errorf("Input %s (%s): expected lexeme %s, got %s", test.input, test.description, test.input, tokens[0].Lexeme)
		}
	}
}

func TestRegisterAliases(t *testing.T) {
	tokens, err := lexer.Tokenize("a0 x10 A0 zero X0 fp s0")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	want := []int64{10, 10, 10, 0, 0, 8, 8}
	for i, v := range want {
		if tokens[i].Type != lexer.REGISTER || tokens[i].Value != v {
			t.Errorf("token %d: got %s value %d, want register %d", i, tokens[i].Type, tokens[i].Value, v)
		}
	}
}

func TestMnemonicCase(t *testing.T) {
	tokens, err := lexer.Tokenize("addi ADDI Addi fence.i")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	for i, want := range []string{"addi", "addi", "addi", "fencei"} {
		if tokens[i].Type != lexer.MNEMONIC || tokens[i].Literal != want {
			t.Errorf("token %d: got %s", i, tokens[i])
		}
	}
}

func TestLabelsAndDirectives(t *testing.T) {
	tokens, err := lexer.Tokenize(".LBB0_1: .TEXT .L_end Loop:")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	checks := []struct {
		typ     lexer.TokenType
		literal string
	}{
		{lexer.LABEL, ".LBB0_1"},
		{lexer.DIRECTIVE, ".text"},
		{lexer.ID, ".L_end"},
		{lexer.LABEL, "Loop"},
	}
	for i, c := range checks {
		if tokens[i].Type != c.typ || tokens[i].Literal != c.literal {
			t.Errorf("token %d: got %s, want %s %q", i, tokens[i], c.typ, c.literal)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, err := lexer.Tokenize(`.string "a\tb\n\0\"\x41"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	if tokens[1].Type != lexer.STRING {
		t.Fatalf("expected string, got %s", tokens[1].Type)
	}
	if want := "a\tb\n\x00\"A"; tokens[1].Literal != want {
		t.Errorf("literal = %q, want %q", tokens[1].Literal, want)
	}
}

func TestUnknownCharacter(t *testing.T) {
	_, err := lexer.Tokenize("addi x1, x0, 1\nadd x1, x2, @x3\n")
	if !errors.Is(err, lexer.ErrUnknownCharacter) {
		t.Fatalf("expected unknown character error, got %v", err)
	}

	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.Error, got %T", err)
	}
	if lexErr.Char != '@' || lexErr.Pos.Line != 2 {
		t.Errorf("got char %q line %d, want '@' line 2", lexErr.Char, lexErr.Pos.Line)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := lexer.Tokenize(".data\n.string \"oops\n")
	if !errors.Is(err, lexer.ErrUnterminatedString) {
		t.Fatalf("expected unterminated string error, got %v", err)
	}
}

func TestFailFast(t *testing.T) {
	l := lexer.NewLexer("@ addi")
	_, first := l.NextToken()
	_, second := l.NextToken()
	if first == nil || second == nil || first.Error() != second.Error() {
		t.Errorf("lexer should stay on its first error: %v / %v", first, second)
	}
}

func TestRestartable(t *testing.T) {
	seq := lexer.Tokens("nop\nret\n")

	count := func() int {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			n++
		}
		return n
	}

	first, second := count(), count()
	if first != 5 || first != second {
		t.Errorf("token counts %d and %d, want 5 both times", first, second)
	}

	l := lexer.NewLexer("nop")
	tok, _ := l.NextToken()
	l.Reset()
	again, _ := l.NextToken()
	if tok != again {
		t.Errorf("Reset did not rewind: %v vs %v", tok, again)
	}
}
