package view

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
)

// WritePage prints a page as a table, or its empty state.
func WritePage(w io.Writer, page Page, currency string) error {
	if page.Empty != nil {
		_, err := fmt.Fprintf(w, "%s %s\n   %s\n", page.Empty.Icon, page.Empty.Title, page.Empty.Text)
		if err == nil && page.Empty.Retry {
			_, err = fmt.Fprintln(w, "   Type 'reload' to try again.")
		}

		return err
	}

	if page.CountVisible {
		if _, err := fmt.Fprintf(w, "%d product(s)\n", page.Count); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tIMAGE\tACTIONS")

	for _, c := range page.Cards {
		if c.ImageURL != "" && !loadable(c.ImageURL) {
			c.ImageFailed()
		}

		image := c.ImageURL
		if image == "" {
			image = c.Placeholder
		}

		name := c.Name
		if c.Badge != "" {
			name += " [" + c.Badge + "]"
		}

		actions := make([]string, 0, len(c.Actions))
		for _, a := range c.Actions {
			actions = append(actions, string(a.Kind))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%s\n",
			c.ProductID, name, c.Category, currency, c.Price, image, strings.Join(actions, ","))
	}

	return tw.Flush()
}

// loadable reports whether an image URL could be fetched at all.
func loadable(raw string) bool {
	u, err := url.Parse(raw)

	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func WriteDetails(w io.Writer, d Details) error {
	_, err := fmt.Fprintf(w,
		"Product Details:\n  ID: %s\n  Name: %s\n  Category: %s\n  Price: %s\n  Description: %s\n  Image URL: %s\n",
		d.ProductID, d.Name, d.Category, d.Price, d.Description, d.ImageURL)

	return err
}

// WriteFieldErrors prints inline validation messages in a stable order.
func WriteFieldErrors(w io.Writer, fields map[string]string) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", name, fields[name]); err != nil {
			return err
		}
	}

	return nil
}

func WriteForm(w io.Writer, form models.ProductForm) error {
	_, err := fmt.Fprintf(w,
		"  productId=%s\n  productName=%s\n  productPrice=%s\n  productCategory=%s\n  productDescription=%s (%d chars)\n  productImageUrl=%s\n",
		form.ProductID, form.Name, form.Price, form.Category, form.Description, len(form.Description), form.ImageURL)

	return err
}
