package air

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/tombee/conductor-air/internal/operation"
)

// deploymentMatrix is the platform/extension/architecture cross product
// the console serves installers for. darwin has no 386 build.
var deploymentMatrix = []struct {
	platform  string
	extension string
	archs     []string
}{
	{"windows", "msi", []string{"386", "amd64", "arm64"}},
	{"linux", "deb", []string{"386", "amd64", "arm64"}},
	{"linux", "rpm", []string{"386", "amd64", "arm64"}},
	{"darwin", "pkg", []string{"amd64", "arm64"}},
}

// getDeploymentPackages derives installer download URLs for an
// organization. This is the one operation that reads from the instance
// root rather than the public API prefix, and the only computed-property
// logic in the integration: a pure function of org ID, deployment token,
// and instance URL, plus a random cache key per URL.
func (c *AIRIntegration) getDeploymentPackages(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	locatorInput, ok := inputs["organization"]
	if !ok || locatorInput == nil {
		return nil, operation.NewValidationError("missing required parameter: organization")
	}

	locator, err := ParseLocator(locatorInput)
	if err != nil {
		return nil, err
	}
	ref, err := locator.ResolveOrganization(ctx, c)
	if err != nil {
		return nil, err
	}
	orgID := stringify(ref.ID)

	env, _, err := c.doEnvelope(ctx, "GET", organizationsPath+"/"+url.PathEscape(orgID), nil, nil)
	if err != nil {
		return nil, err
	}

	var org Organization
	if err := decodeResult(env, organizationsFamily, &org); err != nil {
		return nil, err
	}

	if !org.ShareableDeploymentEnabled {
		return nil, operation.NewValidationError("organization %s does not have shareable deployment enabled", orgID)
	}
	if org.DeploymentToken == "" {
		return nil, operation.NewValidationError("organization %s has no deployment token", orgID)
	}

	packages := buildDeploymentPackages(c.instanceURL, orgID, org.DeploymentToken)

	return &operation.Result{
		Response: map[string]interface{}{
			"organizationId": ref.ID,
			"packages":       packages,
		},
		StatusCode: 200,
		Metadata:   map[string]interface{}{"count": len(packages)},
	}, nil
}

func buildDeploymentPackages(instanceURL, orgID, token string) []DeploymentPackage {
	var packages []DeploymentPackage
	for _, entry := range deploymentMatrix {
		for _, arch := range entry.archs {
			query := url.Values{}
			query.Set("deployment-token", token)
			query.Set("ckey", uuid.NewString())

			packages = append(packages, DeploymentPackage{
				Platform:     entry.platform,
				Architecture: arch,
				Extension:    entry.extension,
				URL: instanceURL + "/api/endpoints/download/" + url.PathEscape(orgID) +
					"/" + entry.platform + "/" + entry.extension + "/" + arch +
					"?" + query.Encode(),
			})
		}
	}
	return packages
}
