package http

// effectEnvelope сериализованный эффект для выдачи клиенту
type effectEnvelope struct {
	Kind    string      `json:"kind"`
	Payload interface{} `json:"payload"`
}

// maxEffectsPerDrain ограничивает выдачу эффектов за один запрос
const maxEffectsPerDrain = 32

// drainEffects вычитывает накопленные эффекты без блокировки. Каждый
// эффект выдается клиенту ровно один раз.
func drainEffects[E interface{ Kind() string }](ch <-chan E) []effectEnvelope {
	out := make([]effectEnvelope, 0)
	for len(out) < maxEffectsPerDrain {
		select {
		case e, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, effectEnvelope{Kind: e.Kind(), Payload: e})
		default:
			return out
		}
	}
	return out
}
