package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/fhuszti/medias-pipeline-go/internal/encoding"
	"github.com/fhuszti/medias-pipeline-go/internal/port"
)

func ptr[T any](v T) *T { return &v }

func TestValidateStructAndErrorsToJson(t *testing.T) {
	type Input struct {
		Email string `validate:"required,email"  json:"email"`
		Tags  []int  `validate:"min=1,dive,gt=0" json:"tags"`
	}

	tests := []struct {
		name        string
		in          Input
		wantErr     bool
		wantJsonMap map[string]string
	}{
		{
			name:    "success",
			in:      Input{Email: "a@b.com", Tags: []int{1, 2, 3}},
			wantErr: false,
		},
		{
			name:    "missing email",
			in:      Input{Email: "", Tags: []int{1}},
			wantErr: true,
			wantJsonMap: map[string]string{
				"email": "required",
			},
		},
		{
			name:    "invalid email and empty tags",
			in:      Input{Email: "not-an-email", Tags: []int{}},
			wantErr: true,
			wantJsonMap: map[string]string{
				"email": "email",
				"tags":  "min",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			// convert and unmarshal for comparison
			js, jerr := ErrorsToJson(err)
			if jerr != nil {
				t.Fatalf("ErrorsToJson() error = %v", jerr)
			}
			var got map[string]string
			if err := json.Unmarshal([]byte(js), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			for field, tag := range tt.wantJsonMap {
				if got[field] != tag {
					t.Errorf("field %q: got %q, want %q", field, got[field], tag)
				}
			}
		})
	}
}

func TestIngestInputValidation(t *testing.T) {
	tests := []struct {
		name       string
		in         port.IngestMediaInput
		wantErr    bool
		wantErrMap map[string]string
	}{
		{
			name: "video",
			in:   port.IngestMediaInput{Name: "upload-42.mp4", SizeBytes: 1024},
		},
		{
			name: "image without size",
			in:   port.IngestMediaInput{Name: "upload-photo.PNG"},
		},
		{
			name:       "missing name",
			in:         port.IngestMediaInput{},
			wantErr:    true,
			wantErrMap: map[string]string{"name": "required"},
		},
		{
			name:       "unsupported extension and negative size",
			in:         port.IngestMediaInput{Name: "report.pdf", SizeBytes: -1},
			wantErr:    true,
			wantErrMap: map[string]string{"name": "medianame", "size_bytes": "gte"},
		},
		{
			name:       "nested path",
			in:         port.IngestMediaInput{Name: "../upload-1.mp4"},
			wantErr:    true,
			wantErrMap: map[string]string{"name": "medianame"},
		},
		{
			name: "profile with overrides",
			in: port.IngestMediaInput{Name: "upload-42.mp4", Profile: "hd", Overrides: &encoding.Overrides{
				Preset:        ptr("slow"),
				TargetBitrate: ptr("900k"),
				MaxHeight:     ptr(480),
			}},
		},
		{
			name:       "unknown profile",
			in:         port.IngestMediaInput{Name: "upload-42.mp4", Profile: "cinema"},
			wantErr:    true,
			wantErrMap: map[string]string{"profile": "videoprofile"},
		},
		{
			name: "malformed overrides",
			in: port.IngestMediaInput{Name: "upload-42.mp4", Overrides: &encoding.Overrides{
				Preset:     ptr("turbo"),
				MaxBitrate: ptr("1200k -y"),
				MaxWidth:   ptr(-5),
			}},
			wantErr:    true,
			wantErrMap: map[string]string{"preset": "oneof", "max_bitrate": "bitrate", "max_width": "gt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			js, _ := ErrorsToJson(err)
			var got map[string]string
			if err := json.Unmarshal([]byte(js), &got); err != nil {
				t.Fatalf("json.Unmarshal err = %v", err)
			}
			for f, wantTag := range tt.wantErrMap {
				if got[f] != wantTag {
					t.Errorf("field %q: got %q, want %q", f, got[f], wantTag)
				}
			}
		})
	}
}

func TestErrorsToJson_NotValidationErrors(t *testing.T) {
	if _, err := ErrorsToJson(errors.New("boom")); err == nil {
		t.Fatal("expected error for non-validation input")
	}
}

func TestNestedAndJsonTagFallback(t *testing.T) {
	type Inner struct {
		Foo string `validate:"required" json:"foo"`
	}
	type Outer struct {
		In  *Inner `validate:"required" json:"inner"`
		Bar int    `validate:"required"             `
	}

	// Case 1: nil pointer → error on "inner"
	t.Run("nil nested struct", func(t *testing.T) {
		o := Outer{In: nil, Bar: 0}

		err := ValidateStruct(o)
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		js, _ := ErrorsToJson(err)

		var got map[string]string
		if err := json.Unmarshal([]byte(js), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		if got["inner"] != "required" {
			t.Errorf("inner: got %q, want %q", got["inner"], "required")
		}
		if got["Bar"] != "required" {
			t.Errorf("Bar: got %q, want %q", got["Bar"], "required")
		}
	})

	// Case 2: pointer present but Foo empty → error on "foo"
	t.Run("missing nested field", func(t *testing.T) {
		o := Outer{In: &Inner{Foo: ""}, Bar: 0}

		err := ValidateStruct(o)
		if err == nil {
			t.Fatal("expected validation error, got nil")
		}
		js, _ := ErrorsToJson(err)

		var got map[string]string
		if err := json.Unmarshal([]byte(js), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}

		// Now the only failure on the nested struct is Foo → json:"foo"
		if got["foo"] != "required" {
			t.Errorf("foo: got %q, want %q", got["foo"], "required")
		}
		if got["Bar"] != "required" {
			t.Errorf("Bar: got %q, want %q", got["Bar"], "required")
		}
	})
}
