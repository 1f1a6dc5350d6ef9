package intents

import (
	"context"

	"bostoninfo/skill"
)

// coronavirusUpdate зачитывает свежие новости с сайта города
func (c *Controller) coronavirusUpdate(ctx context.Context, req *skill.SkillRequest) *skill.SkillResponse {
	resp := skill.NewSkillResponse(req)
	resp.CardTitle = CoronavirusCardTitle
	resp.ShouldEndSession = true
	resp.OutputSpeech = NoCoronavirusUpdateMessage

	if c.updates == nil {
		return resp
	}

	update, err := c.updates.CoronavirusUpdate(ctx)
	if err != nil {
		c.logger.Error("Failed to get coronavirus update", "error", err)
		return resp
	}

	resp.OutputSpeechType = skill.SpeechTypeSSML
	resp.OutputSpeech = CoronavirusWelcome + " " + update.HomepageText + " " + NewsSound + " " +
		update.DetailText + "</speak>"
	return resp
}
