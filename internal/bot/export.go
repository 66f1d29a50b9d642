package bot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/vladislavdragonenkov/cleanbot/internal/domain"
)

// ordersCSV сериализует заявки в CSV для выгрузки администратору.
func ordersCSV(orders []domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"ID", "User ID", "Username", "Phone", "Address", "Order Time", "Status", "Created At"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, o := range orders {
		username := ""
		phone := ""
		if o.Author != nil {
			if o.Author.Username != "" {
				username = "@" + o.Author.Username
			}
			phone = o.Author.PhoneNumber
		}

		createdAt := ""
		if !o.CreatedAt.IsZero() {
			createdAt = o.CreatedAt.Format("2006-01-02 15:04:05")
		}

		record := []string{
			strconv.FormatInt(o.ID, 10),
			o.AuthorID,
			username,
			phone,
			o.Address,
			o.ScheduledAt.Format("2006-01-02 15:04:05"),
			string(o.Status),
			createdAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
