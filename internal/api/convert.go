package api

import "github.com/aliskandarani/raai/internal/services"

// Conversions between the wire/storage types and the service-layer types.

func toServiceSurvey(s *Survey) *services.Survey {
	if s == nil {
		return nil
	}
	out := &services.Survey{
		ID:            s.ID,
		TitleAr:       s.TitleAr,
		TitleEn:       s.TitleEn,
		DescriptionAr: s.DescriptionAr,
		DescriptionEn: s.DescriptionEn,
		CustomerType:  s.CustomerType,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		IsArchived:    s.IsArchived,
		ResponseCount: s.ResponseCount,
	}
	for _, q := range s.Questions {
		out.Questions = append(out.Questions, toServiceQuestion(q))
	}
	return out
}

func fromServiceSurvey(s *services.Survey) *Survey {
	if s == nil {
		return nil
	}
	out := &Survey{
		ID:            s.ID,
		TitleAr:       s.TitleAr,
		TitleEn:       s.TitleEn,
		DescriptionAr: s.DescriptionAr,
		DescriptionEn: s.DescriptionEn,
		CustomerType:  s.CustomerType,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		IsArchived:    s.IsArchived,
		ResponseCount: s.ResponseCount,
	}
	for _, q := range s.Questions {
		out.Questions = append(out.Questions, fromServiceQuestion(q))
	}
	return out
}

func toServiceQuestion(q *Question) *services.Question {
	if q == nil {
		return nil
	}
	out := &services.Question{
		ID:         q.ID,
		SurveyID:   q.SurveyID,
		Type:       q.Type,
		ContentAr:  q.ContentAr,
		ContentEn:  q.ContentEn,
		Required:   q.Required,
		OrderNum:   q.OrderNum,
		CategoryAr: q.CategoryAr,
		CategoryEn: q.CategoryEn,
		StarCount:  q.StarCount,
		MinValue:   q.MinValue,
		MaxValue:   q.MaxValue,
		Step:       q.Step,
	}
	for _, opt := range q.Options {
		out.Options = append(out.Options, &services.Option{
			ID: opt.ID, QuestionID: opt.QuestionID, TextAr: opt.TextAr, TextEn: opt.TextEn, OrderNum: opt.OrderNum,
		})
	}
	for _, m := range q.RangeMappings {
		out.RangeMappings = append(out.RangeMappings, &services.RangeMapping{
			ID: m.ID, QuestionID: m.QuestionID, Stars: m.Stars, MinPercentage: m.MinPercentage, MaxPercentage: m.MaxPercentage,
		})
	}
	return out
}

func fromServiceQuestion(q *services.Question) *Question {
	if q == nil {
		return nil
	}
	out := &Question{
		ID:         q.ID,
		SurveyID:   q.SurveyID,
		Type:       q.Type,
		ContentAr:  q.ContentAr,
		ContentEn:  q.ContentEn,
		Required:   q.Required,
		OrderNum:   q.OrderNum,
		CategoryAr: q.CategoryAr,
		CategoryEn: q.CategoryEn,
		StarCount:  q.StarCount,
		MinValue:   q.MinValue,
		MaxValue:   q.MaxValue,
		Step:       q.Step,
	}
	for _, opt := range q.Options {
		out.Options = append(out.Options, &Option{
			ID: opt.ID, QuestionID: opt.QuestionID, TextAr: opt.TextAr, TextEn: opt.TextEn, OrderNum: opt.OrderNum,
		})
	}
	for _, m := range q.RangeMappings {
		out.RangeMappings = append(out.RangeMappings, &RangeMapping{
			ID: m.ID, QuestionID: m.QuestionID, Stars: m.Stars, MinPercentage: m.MinPercentage, MaxPercentage: m.MaxPercentage,
		})
	}
	return out
}

func toServiceResponse(r *Response) *services.Response {
	if r == nil {
		return nil
	}
	out := &services.Response{
		ID:             r.ID,
		SurveyID:       r.SurveyID,
		SessionID:      r.SessionID,
		SubmittedAt:    r.SubmittedAt,
		Email:          r.Email,
		Gender:         r.Gender,
		AgeRange:       r.AgeRange,
		EducationLevel: r.EducationLevel,
		Nationality:    r.Nationality,
		HajjNumber:     r.HajjNumber,
	}
	for _, a := range r.Answers {
		out.Answers = append(out.Answers, &services.Answer{ID: a.ID, ResponseID: a.ResponseID, QuestionID: a.QuestionID, Value: a.Value})
	}
	return out
}

func fromServiceResponse(r *services.Response) *Response {
	if r == nil {
		return nil
	}
	out := &Response{
		ID:             r.ID,
		SurveyID:       r.SurveyID,
		SessionID:      r.SessionID,
		SubmittedAt:    r.SubmittedAt,
		Email:          r.Email,
		Gender:         r.Gender,
		AgeRange:       r.AgeRange,
		EducationLevel: r.EducationLevel,
		Nationality:    r.Nationality,
		HajjNumber:     r.HajjNumber,
	}
	for _, a := range r.Answers {
		out.Answers = append(out.Answers, &Answer{ID: a.ID, ResponseID: a.ResponseID, QuestionID: a.QuestionID, Value: a.Value})
	}
	return out
}

func toServiceSurveys(list []*Survey) []*services.Survey {
	out := make([]*services.Survey, 0, len(list))
	for _, s := range list {
		out = append(out, toServiceSurvey(s))
	}
	return out
}

func toServiceResponses(list []*Response) []*services.Response {
	out := make([]*services.Response, 0, len(list))
	for _, r := range list {
		out = append(out, toServiceResponse(r))
	}
	return out
}
