package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type mapped struct {
	status  int
	message string
}

var businessCodes = map[string]mapped{
	"overlaps_appointment":    {http.StatusConflict, "Conflito com outro agendamento."},
	"overlaps_blackout":       {http.StatusConflict, "Horário bloqueado na agenda do profissional."},
	"invalid_transition":      {http.StatusConflict, "Mudança de status não permitida."},
	"not_reschedulable":       {http.StatusConflict, "Agendamento não pode ser remarcado."},
	"outside_working_hours":   {http.StatusBadRequest, "Fora do horário de atendimento."},
	"too_soon":                {http.StatusBadRequest, "Horário inválido."},
	"invalid_date_or_time":    {http.StatusBadRequest, "Data ou hora inválida."},
	"invalid_date":            {http.StatusBadRequest, "Data inválida."},
	"invalid_duration":        {http.StatusBadRequest, "Duração inválida."},
	"invalid_time_range":      {http.StatusBadRequest, "Faixa de horário inválida."},
	"invalid_date_range":      {http.StatusBadRequest, "Período inválido."},
	"invalid_status":          {http.StatusBadRequest, "Status inválido."},
	"invalid_time":            {http.StatusBadRequest, "Horário inválido."},
	"invalid_month":           {http.StatusBadRequest, "Mês inválido."},
	"invalid_client":          {http.StatusBadRequest, "Nome e telefone do cliente são obrigatórios."},
	"invalid_image":           {http.StatusBadRequest, "Imagem inválida. Use JPEG, PNG ou WebP."},
	"establishment_not_found": {http.StatusNotFound, "Estabelecimento não encontrado."},
	"professional_not_found":  {http.StatusNotFound, "Profissional não encontrado."},
	"service_not_found":       {http.StatusNotFound, "Serviço não encontrado."},
	"appointment_not_found":   {http.StatusNotFound, "Agendamento não encontrado."},
	"blackout_not_found":      {http.StatusNotFound, "Bloqueio não encontrado."},

	"invalid_period":             {http.StatusBadRequest, "Período de preferência inválido."},
	"professional_required":      {http.StatusBadRequest, "Informe o profissional."},
	"waitlist_entry_not_found":   {http.StatusNotFound, "Item da lista de espera não encontrado."},
	"waitlist_entry_not_waiting": {http.StatusConflict, "Item da lista de espera já foi atendido ou removido."},
	"invalid_score":              {http.StatusBadRequest, "Nota deve ser de 1 a 5."},
	"invalid_reply":              {http.StatusBadRequest, "Resposta vazia."},
	"appointment_not_completed":  {http.StatusConflict, "Só é possível avaliar atendimentos concluídos."},
	"rating_already_exists":      {http.StatusConflict, "Este atendimento já foi avaliado."},
	"rating_not_found":           {http.StatusNotFound, "Avaliação não encontrada."},
}

// MapBusiness escreve a resposta correspondente ao erro. Erros que não são
// de negócio viram 500.
func MapBusiness(c *gin.Context, err error) {
	code := CodeOf(err)
	if m, ok := businessCodes[code]; ok {
		Write(c, m.status, code, m.message)
		return
	}
	if IsExclusionConflict(err) {
		Conflict(c, "overlaps_appointment", businessCodes["overlaps_appointment"].message)
		return
	}
	Internal(c, "internal_error", "Erro interno.")
}
