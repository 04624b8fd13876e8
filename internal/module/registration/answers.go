package registration

import (
	"encoding/json"
	"fmt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
)

// AnswerInput 报名时提交的单题答案
// 单选/文本题填 value，多选题填 values
type AnswerInput struct {
	QuestionID uint     `json:"question_id" binding:"required"`
	Value      string   `json:"value"`
	Values     []string `json:"values"`
}

// buildAnswers 按题目类型校验答案并生成落库值（question_id -> value）
// checkbox 的值序列化为 JSON 数组，其余题型为纯文本
func buildAnswers(questions []model.ChallengeQuestion, inputs []AnswerInput) (map[uint]string, *response.Error) {
	byQuestion := make(map[uint]*AnswerInput, len(inputs))
	for i := range inputs {
		in := &inputs[i]
		if _, ok := byQuestion[in.QuestionID]; ok {
			return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("题目 %d 重复作答", in.QuestionID))
		}
		byQuestion[in.QuestionID] = in
	}

	known := make(map[uint]bool, len(questions))
	values := make(map[uint]string, len(questions))

	for i := range questions {
		q := &questions[i]
		known[q.ID] = true

		in, answered := byQuestion[q.ID]
		if !answered || isEmptyAnswer(q.Type, in) {
			if q.Required {
				return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("必答题未作答: %s", q.Label))
			}
			continue
		}

		switch q.Type {
		case model.QuestionText, model.QuestionTextarea:
			if len(in.Values) > 0 {
				return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("文本题不接受多值: %s", q.Label))
			}
			values[q.ID] = in.Value

		case model.QuestionSelect, model.QuestionRadio:
			options, err := parseOptions(q.Options)
			if err != nil {
				return nil, response.ErrInternal.WithOrigin(err)
			}
			if !containsOption(options, in.Value) {
				return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("选项不存在: %s", q.Label))
			}
			values[q.ID] = in.Value

		case model.QuestionCheckbox:
			if in.Value != "" {
				return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("多选题请使用 values 字段: %s", q.Label))
			}
			options, err := parseOptions(q.Options)
			if err != nil {
				return nil, response.ErrInternal.WithOrigin(err)
			}
			seen := make(map[string]bool, len(in.Values))
			for _, v := range in.Values {
				if !containsOption(options, v) {
					return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("选项不存在: %s", q.Label))
				}
				if seen[v] {
					return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("选项重复: %s", q.Label))
				}
				seen[v] = true
			}
			raw, err := json.Marshal(in.Values)
			if err != nil {
				return nil, response.ErrInternal.WithOrigin(err)
			}
			values[q.ID] = string(raw)

		default:
			return nil, response.ErrInternal.WithTips("未知题目类型: " + q.Type)
		}
	}

	// 不允许回答不属于该挑战的题目
	for qid := range byQuestion {
		if !known[qid] {
			return nil, response.ErrAnswerInvalid.WithTips(fmt.Sprintf("题目 %d 不属于该挑战", qid))
		}
	}

	return values, nil
}

func isEmptyAnswer(questionType string, in *AnswerInput) bool {
	if questionType == model.QuestionCheckbox {
		return len(in.Values) == 0
	}
	return in.Value == ""
}

func parseOptions(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var options []string
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, err
	}
	return options, nil
}

func containsOption(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
