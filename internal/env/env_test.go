package env

import "testing"

func TestEnvironmentUnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Environment
		wantErr bool
	}{
		{input: "development", want: Development},
		{input: "dev", want: Development},
		{input: "", want: Development},
		{input: " Production ", want: Production},
		{input: "PROD", want: Production},
		{input: "staging", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			var got Environment
			err := got.UnmarshalText([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("UnmarshalText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
