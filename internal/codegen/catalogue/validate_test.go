package catalogue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/bindgen/internal/codegen/catalogue"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cat     catalogue.Catalogue
		wantErr error
		wantMsg string
	}{
		{
			name: "valid",
			cat: catalogue.Catalogue{
				Bindings: []catalogue.Binding{{Module: "arc", Source: "a/arc.xml"}},
				Protos:   []catalogue.Proto{{Module: "arc", Source: "a/arc.proto"}},
			},
		},
		{
			name: "duplicate proto",
			cat: catalogue.Catalogue{
				Protos: []catalogue.Proto{
					{Module: "arc", Source: "a/arc.proto"},
					{Module: "fido", Source: "a/fido.proto"},
					{Module: "arc", Source: "b/arc.proto"},
				},
			},
			wantErr: catalogue.ErrDuplicateModule,
			wantMsg: `proto #2 "arc"`,
		},
		{
			name: "duplicate binding",
			cat: catalogue.Catalogue{
				Bindings: []catalogue.Binding{
					{Module: "x", Source: "x.xml"},
					{Module: "x", Source: "y.xml"},
				},
			},
			wantErr: catalogue.ErrDuplicateModule,
			wantMsg: "first declared at #0",
		},
		{
			name: "dotted module name",
			cat: catalogue.Catalogue{
				Bindings: []catalogue.Binding{{Module: "org.chromium.Debugd", Source: "d.xml"}},
			},
			wantErr: catalogue.ErrInvalidModuleName,
			wantMsg: "org.chromium.Debugd",
		},
		{
			name: "leading digit",
			cat: catalogue.Catalogue{
				Protos: []catalogue.Proto{{Module: "2fa", Source: "2fa.proto"}},
			},
			wantErr: catalogue.ErrInvalidModuleName,
		},
		{
			name: "escaping source path",
			cat: catalogue.Catalogue{
				Protos: []catalogue.Proto{{Module: "arc", Source: "../arc.proto"}},
			},
			wantErr: catalogue.ErrInvalidSourcePath,
		},
		{
			name: "absolute source path",
			cat: catalogue.Catalogue{
				Protos: []catalogue.Proto{{Module: "arc", Source: "/arc.proto"}},
			},
			wantErr: catalogue.ErrInvalidSourcePath,
		},
		{
			name: "unclean source path",
			cat: catalogue.Catalogue{
				Protos: []catalogue.Proto{{Module: "arc", Source: "a//arc.proto"}},
			},
			wantErr: catalogue.ErrInvalidSourcePath,
		},
		{
			name: "unknown mode",
			cat: catalogue.Catalogue{
				Bindings: []catalogue.Binding{{Module: "x", Source: "x.xml", Mode: catalogue.Mode{Kind: "server"}}},
			},
			wantErr: catalogue.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	c := catalogue.Catalogue{
		Protos: []catalogue.Proto{
			{Module: "a-b", Source: "a.proto"},
			{Module: "c", Source: "/c.proto"},
		},
	}
	err := c.Validate()
	assert.ErrorIs(t, err, catalogue.ErrInvalidModuleName)
	assert.ErrorIs(t, err, catalogue.ErrInvalidSourcePath)
}

func TestSuggestModuleName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "fooBar-baz", want: "foo_bar_baz"},
		{in: "already_snake", want: "already_snake"},
		{in: "---", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, catalogue.SuggestModuleName(tt.in))
		})
	}
}
