package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"journal-management-api/models"
)

const doiSuffixLength = 6

// doiSuffixGenerator is injectable for tests.
var doiSuffixGenerator = func() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:doiSuffixLength]
}

func doiPrefix() string {
	prefix := strings.TrimSpace(os.Getenv("DOI_PREFIX"))
	if prefix == "" {
		prefix = "10.1234/journal"
	}
	return prefix
}

// GenerateDOI mints a DOI of the form <prefix>.<year>.<suffix> and verifies it
// against existing articles, retrying on collision.
func GenerateDOI(db *gorm.DB, year int) (string, error) {
	const maxAttempts = 5

	for attempt := 0; attempt < maxAttempts; attempt++ {
		doi := fmt.Sprintf("%s.%d.%s", doiPrefix(), year, doiSuffixGenerator())

		var count int64
		if err := db.Model(&models.Article{}).Where("doi = ?", doi).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return doi, nil
		}
	}

	return "", fmt.Errorf("failed to generate a unique DOI after %d attempts", maxAttempts)
}

// DOIExists reports whether a DOI is already assigned to any article.
func DOIExists(db *gorm.DB, doi string) (bool, error) {
	var count int64
	if err := db.Model(&models.Article{}).Where("doi = ?", doi).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
