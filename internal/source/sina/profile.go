package sina

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/junyangz/cninsight/internal/source"
	"github.com/junyangz/cninsight/pkg/models"
)

// CompanyName scrapes the company's display name from the Sina corporate
// profile page. Names change rarely, so results are cached.
func (c *Client) CompanyName(ctx context.Context, company models.CompanyID) (string, error) {
	if err := source.ValidateCode(company); err != nil {
		return "", err
	}
	if cached, ok := c.names.Get(string(company)); ok {
		return cached.(string), nil
	}
	op := fmt.Sprintf("sina profile %s", company)

	if err := c.limiter.Wait(ctx); err != nil {
		return "", &source.SourceUnavailableError{Op: op, Err: err}
	}

	url := fmt.Sprintf("%s/corp/go.php/vCI_CorpInfo/stockid/%s.phtml", c.profileBase, company)
	body, err := c.http.Get(ctx, url)
	if err != nil {
		return "", &source.SourceUnavailableError{Op: op, Err: err}
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(
		transform.NewReader(body, simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return "", &source.SourceUnavailableError{Op: op, Err: err}
	}

	var name string
	doc.Find("td").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.Contains(sel.Text(), "公司名称") {
			name = cleanName(sel.Next().Text())
			return false
		}
		return true
	})
	if name == "" {
		return "", &source.SourceUnavailableError{
			Op:  op,
			Err: fmt.Errorf("unexpected page structure: company name not found"),
		}
	}

	c.names.Set(string(company), name)
	return name, nil
}

func cleanName(s string) string {
	for _, ch := range []string{"\r", "\n", " ", " "} {
		s = strings.ReplaceAll(s, ch, "")
	}
	return s
}
