package bilibili

import (
	"context"
	"errors"
	"fmt"

	"profilestats/internal/config"
	"profilestats/internal/snapshot"
)

const (
	report_client_follower = "client.follower"
	report_client_upstat   = "client.upstat"
	report_client_navnum   = "client.navnum"
)

// snapshot field names
const (
	FieldFollower  = "follower"
	FieldViews     = "views"
	FieldLikes     = "likes"
	FieldCreations = "creations"
)

// Fields are the stats tracked for bilibili, in the order they are shown.
var Fields = []string{FieldFollower, FieldViews, FieldLikes, FieldCreations}

func (c *Client) RelationStat(ctx context.Context) (RelationStat, error) {
	return get[RelationStat](ctx, c, "/x/relation/stat", map[string]string{"vmid": c.uid}, false)
}

func (c *Client) UpStat(ctx context.Context) (UpStat, error) {
	return get[UpStat](ctx, c, "/x/space/upstat", map[string]string{"mid": c.uid}, true)
}

func (c *Client) NavNum(ctx context.Context) (NavNum, error) {
	return get[NavNum](ctx, c, "/x/space/navnum", map[string]string{"mid": c.uid}, true)
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) Tracked() []string {
	return Fields
}

func (c *Client) reportFailure(id string, err error) {
	if errors.Is(err, ErrAuthRequired) {
		c.tel.ReportWarning(
			report_client_auth,
			err,
			fmt.Sprintf("this endpoint needs a login, set %s and %s", config.EnvBiliSessdata, config.EnvBiliJct),
		)
		return
	}
	c.tel.ReportBroken(id, err)
}

// Fetch requests every endpoint and returns the fields it could observe.
// endpoints fail independently, a failed endpoint only drops its own fields.
// the returned error joins every endpoint failure.
func (c *Client) Fetch(ctx context.Context) (snapshot.Fields, error) {
	fields := snapshot.Fields{}
	var errs []error

	relation, err := c.RelationStat(ctx)
	if err != nil {
		c.reportFailure(report_client_follower, err)
		errs = append(errs, err)
	} else {
		fields[FieldFollower] = relation.Follower
	}

	upstat, err := c.UpStat(ctx)
	if err != nil {
		c.reportFailure(report_client_upstat, err)
		errs = append(errs, err)
	} else {
		fields[FieldViews] = upstat.Archive.View
		fields[FieldLikes] = upstat.Likes
	}

	navnum, err := c.NavNum(ctx)
	if err != nil {
		c.reportFailure(report_client_navnum, err)
		errs = append(errs, err)
	} else {
		fields[FieldCreations] = navnum.Video
	}

	return fields, errors.Join(errs...)
}
