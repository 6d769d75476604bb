package store

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/yukikurage/officedesk/internal/models"
)

var taskNumberPattern = regexp.MustCompile(`^T(\d{3,})$`)

// NextTaskNumber returns "T" followed by one more than the highest numeric
// suffix among existing task numbers, zero padded to three digits. Numbers
// that do not match the pattern are ignored.
func NextTaskNumber(tasks []models.Task) string {
	highest := 0
	for _, t := range tasks {
		m := taskNumberPattern.FindStringSubmatch(t.TaskNumber)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("T%03d", highest+1)
}
