package services

import (
	"strings"

	"randommovie/models"
)

const youTubeSite = "YouTube"

// ExtractTrailerURL picks a YouTube link out of a videos response.
// A "Trailer" entry wins over any other YouTube entry; list order breaks ties.
func ExtractTrailerURL(videos *VideosResponse) *string {
	if videos == nil {
		return nil
	}

	for _, v := range videos.Results {
		if v.Site == youTubeSite && v.Type == "Trailer" && v.Key != "" {
			return youTubeURL(v.Key)
		}
	}
	for _, v := range videos.Results {
		if v.Site == youTubeSite && v.Key != "" {
			return youTubeURL(v.Key)
		}
	}
	return nil
}

func youTubeURL(key string) *string {
	u := "https://www.youtube.com/watch?v=" + key
	return &u
}

// ExtractCertification returns the first non-empty certification for region, or nil
func ExtractCertification(releases *ReleaseDatesResponse, region string) *string {
	if releases == nil {
		return nil
	}

	for _, block := range releases.Results {
		if block.ISO31661 != region {
			continue
		}
		for _, rd := range block.ReleaseDates {
			if cert := strings.TrimSpace(rd.Certification); cert != "" {
				return &cert
			}
		}
	}
	return nil
}

// ExtractProviders builds the where-to-watch block for region. A missing region yields empty
// lists and a nil link. logoURL may be nil, in which case logos are left unresolved.
func ExtractProviders(providers *WatchProvidersResponse, region string, logoURL func(string) *string) *models.WhereToWatch {
	var block RegionProviders
	if providers != nil {
		block = providers.Results[region]
	}

	return &models.WhereToWatch{
		Region:   region,
		Link:     block.Link,
		Flatrate: convertProviders(block.Flatrate, logoURL),
		Rent:     convertProviders(block.Rent, logoURL),
		Buy:      convertProviders(block.Buy, logoURL),
	}
}

func convertProviders(in []WatchProvider, logoURL func(string) *string) []models.Provider {
	out := make([]models.Provider, 0, len(in))
	for _, p := range in {
		provider := models.Provider{
			ProviderID:      p.ProviderID,
			ProviderName:    p.ProviderName,
			LogoPath:        p.LogoPath,
			DisplayPriority: p.DisplayPriority,
		}
		if logoURL != nil {
			provider.LogoURL = logoURL(p.LogoPath)
		}
		out = append(out, provider)
	}
	return out
}
