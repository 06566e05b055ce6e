package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagemonk/pagemonk/internal/domain"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		size     int64
		wantKind domain.ErrorKind
	}{
		{name: "pdf accepted", path: "report.pdf", size: 1024},
		{name: "png accepted", path: "scan.png", size: 1024},
		{name: "uppercase extension accepted", path: "REPORT.PDF", size: 1024},
		{name: "docx accepted", path: "contract.docx", size: 1024},
		{name: "markdown accepted", path: "notes.md", size: 1024},
		{name: "at the size ceiling", path: "big.pdf", size: MaxUploadBytes},
		{name: "executable rejected", path: "tool.exe", size: 1024, wantKind: domain.KindUnsupportedType},
		{name: "no extension rejected", path: "README", size: 1024, wantKind: domain.KindUnsupportedType},
		{name: "csv rejected", path: "data.csv", size: 1024, wantKind: domain.KindUnsupportedType},
		{name: "15 MB png rejected", path: "huge.png", size: 15 << 20, wantKind: domain.KindFileTooLarge},
		{name: "just over the ceiling", path: "big.pdf", size: MaxUploadBytes + 1, wantKind: domain.KindFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.path, tt.size)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, domain.IsKind(err, tt.wantKind), "want kind %s, got %v", tt.wantKind, err)
		})
	}
}

func TestFileKind(t *testing.T) {
	assert.Equal(t, "application/pdf", FileKind("invoice.pdf"))
	assert.Equal(t, "image/png", FileKind("scan.PNG"))
	assert.Equal(t, "", FileKind("tool.exe"))
}
