package gh

import (
	"context"
	"net/http"
	"regexp"
	"strconv"

	"github.com/google/go-github/v84/github"
	"vendorpull/pkg/errors"
	"vendorpull/pkg/models"
)

var digitRuns = regexp.MustCompile(`\d+`)

// LatestReleaseTag returns the tag name of the repository's latest published
// release. Repositories without a formal release fall back to the highest
// tag, where tags are ordered by the sequence of digit runs embedded in
// their names ("v1.10.0" sorts above "v1.9.3") rather than lexically.
func (c *Client) LatestReleaseTag(ctx context.Context, ref models.RepoRef) (string, error) {
	release, resp, err := c.gh.Repositories.GetLatestRelease(ctx, ref.Owner, ref.Name)
	if err == nil {
		return release.GetTagName(), nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return "", errors.ResolveError("Failed to query latest release", ref.String(), err)
	}

	// No published release; fall back to the tag listing.
	var names []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		tags, resp, err := c.gh.Repositories.ListTags(ctx, ref.Owner, ref.Name, opts)
		if err != nil {
			return "", errors.ResolveError("Failed to list tags", ref.String(), err)
		}
		for _, tag := range tags {
			names = append(names, tag.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if len(names) == 0 {
		return "", errors.New(errors.ErrCodeEmptyRepo,
			"Repository has no releases and no tags").
			WithContext("repository", ref.String())
	}

	return maxVersionTag(names), nil
}

// maxVersionTag returns the tag whose embedded digit runs compare greatest.
// Ties keep the later entry, matching the API's listing order.
func maxVersionTag(names []string) string {
	best := names[0]
	bestKey := versionKey(best)
	for _, name := range names[1:] {
		key := versionKey(name)
		if compareVersionKeys(key, bestKey) >= 0 {
			best = name
			bestKey = key
		}
	}
	return best
}

// versionKey extracts every maximal digit run from a tag name as integers,
// e.g. "v1.9.10-rc2" -> [1 9 10 2].
func versionKey(name string) []int64 {
	runs := digitRuns.FindAllString(name, -1)
	key := make([]int64, 0, len(runs))
	for _, run := range runs {
		n, err := strconv.ParseInt(run, 10, 64)
		if err != nil {
			// Absurdly long digit run; saturate rather than fail.
			n = int64(^uint64(0) >> 1)
		}
		key = append(key, n)
	}
	return key
}

// compareVersionKeys compares integer sequences lexicographically, with a
// shorter sequence ordering below a longer one sharing its prefix.
func compareVersionKeys(a, b []int64) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
