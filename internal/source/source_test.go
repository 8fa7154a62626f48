package source

import (
	"errors"
	"fmt"
	"testing"

	"github.com/junyangz/cninsight/pkg/models"
)

func TestValidateCodePrefixTotality(t *testing.T) {
	// Every 3-digit prefix either passes or fails; only the supported
	// market prefixes may pass.
	supported := map[string]bool{
		"600": true, "601": true, "603": true, "605": true,
		"000": true, "001": true, "002": true, "003": true,
		"300": true, "301": true,
		"688": true,
	}
	for p := 0; p < 1000; p++ {
		prefix := fmt.Sprintf("%03d", p)
		code := models.CompanyID(prefix + "123")
		err := ValidateCode(code)
		if supported[prefix] && err != nil {
			t.Errorf("prefix %s should validate: %v", prefix, err)
		}
		if !supported[prefix] && err == nil {
			t.Errorf("prefix %s should be rejected", prefix)
		}
	}
}

func TestValidateCodeError(t *testing.T) {
	err := ValidateCode("abc")
	var invalid *InvalidIdentifierError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidIdentifierError, got %T", err)
	}
	if invalid.Code != "abc" {
		t.Errorf("Code = %q", invalid.Code)
	}
}

func TestSourceUnavailableUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &SourceUnavailableError{Op: "sina balance_sheet 600519", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("SourceUnavailableError should unwrap to its cause")
	}
}
